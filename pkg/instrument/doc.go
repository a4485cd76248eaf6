// Package instrument provides ready-made observers for a reactive engine:
// Prometheus metrics and OpenTelemetry tracing.
//
// Attach an observer when creating the engine:
//
//	metrics := instrument.NewMetrics(instrument.WithNamespace("myapp"))
//	eng := reactive.New(reactive.WithObserver(metrics))
//
// Combine observers with Multi:
//
//	eng := reactive.New(reactive.WithObserver(
//	    instrument.Multi(metrics, instrument.NewTracer()),
//	))
package instrument
