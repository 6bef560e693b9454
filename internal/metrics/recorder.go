// Package metrics records link rewriting counts.
//
// Components take a Recorder and default to NoopRecorder, so metrics stay
// optional. The CLI swaps in a PrometheusRecorder for serve.metrics and for
// rewrite --watch --metrics-addr.
package metrics

import autoparam "github.com/newgentdigital/go-autoparam"

// Recorder observes batch runs and rewritten HTTP responses.
type Recorder interface {
	ObserveBatch(stats autoparam.Stats)
	ObserveResponse(path string, res autoparam.Result)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

// ObserveBatch implements Recorder.
func (NoopRecorder) ObserveBatch(autoparam.Stats) {}

// ObserveResponse implements Recorder.
func (NoopRecorder) ObserveResponse(string, autoparam.Result) {}
