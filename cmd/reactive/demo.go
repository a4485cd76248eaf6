package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/pkg/reactive"
)

func demoCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through signals, derived cells, and effects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(debug)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "log every effect run and cell write")

	return cmd
}

func runDemo(debug bool) error {
	opts := []reactive.Option{}
	if debug {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts,
			reactive.WithLogger(logger),
			reactive.WithDebug(reactive.DebugConfig{LogEffectRuns: true, LogWrites: true, LogRunaway: true}),
		)
	}
	eng := reactive.New(opts...)

	info("creating cells a=0 and b=0 with derived sum = a + b")
	a, err := reactive.NewSignal(eng, 0)
	if err != nil {
		return err
	}
	b, err := reactive.NewSignal(eng, 0)
	if err != nil {
		return err
	}
	sum, err := reactive.NewDerived(eng, func() int {
		return a.Get() + b.Get()
	})
	if err != nil {
		return err
	}

	info("installing an effect that formats all three cells")
	if _, err := reactive.RunEffect(eng, func() reactive.Cleanup {
		fmt.Printf("    %d + %d = %d\n", a.Get(), b.Get(), sum.Get())
		return nil
	}, reactive.EffectName("formatter")); err != nil {
		return err
	}

	info("writing a=1, then b=2 (one line per top-level write)")
	if err := a.Set(1); err != nil {
		return err
	}
	if err := b.Set(2); err != nil {
		return err
	}

	info("writing b=2 again is a no-op: no version bump, no replay")
	if err := b.Set(2); err != nil {
		return err
	}

	snap := sum.Inspect()
	info("derived cell %d now holds %v with %d subscriber(s)", snap.ID, snap.Value, len(snap.Subscribers))

	info("demonstrating the runaway guard with a self-incrementing cell")
	x, err := reactive.NewSignal(eng, 0)
	if err != nil {
		return err
	}
	if _, err := reactive.RunEffect(eng, func() reactive.Cleanup {
		v := x.Get()
		if v > 0 {
			_ = x.Set(v + 1)
		}
		return nil
	}, reactive.EffectName("runaway")); err != nil {
		return err
	}
	if err := x.Set(1); errors.Is(err, reactive.ErrRunawayUpdate) {
		info("write failed as designed: %v", err)
	} else {
		return fmt.Errorf("expected a runaway update, got %v", err)
	}

	success("demo complete")
	return nil
}
