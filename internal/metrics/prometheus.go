package metrics

import (
	"net/http"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	autoparam "github.com/newgentdigital/go-autoparam"
)

const namespace = "autoparam"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once               sync.Once
	filesScanned       prom.Counter
	filesChanged       prom.Counter
	filesFailed        prom.Counter
	linksScanned       *prom.CounterVec
	linksChanged       *prom.CounterVec
	responsesRewritten prom.Counter
	batchDuration      prom.Histogram
}

// NewPrometheusRecorder constructs and registers the metrics on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.filesScanned = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_scanned_total",
			Help:      "Regular files seen while walking build output",
		})
		pr.filesChanged = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_changed_total",
			Help:      "HTML files rewritten on disk",
		})
		pr.filesFailed = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_failed_total",
			Help:      "HTML files that could not be read or written",
		})
		pr.linksScanned = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "links_scanned_total",
			Help:      "Anchor hrefs examined, by source",
		}, []string{"source"})
		pr.linksChanged = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "links_changed_total",
			Help:      "Anchor hrefs modified, by source",
		}, []string{"source"})
		pr.responsesRewritten = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "responses_rewritten_total",
			Help:      "HTML responses with at least one rewritten link",
		})
		pr.batchDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of directory rewrite runs",
			Buckets:   prom.DefBuckets,
		})
		reg.MustRegister(pr.filesScanned, pr.filesChanged, pr.filesFailed,
			pr.linksScanned, pr.linksChanged, pr.responsesRewritten, pr.batchDuration)
	})
	return pr
}

// ObserveBatch adds one directory run.
func (p *PrometheusRecorder) ObserveBatch(s autoparam.Stats) {
	if p == nil || p.batchDuration == nil {
		return
	}
	p.filesScanned.Add(float64(s.FilesScanned))
	p.filesChanged.Add(float64(s.FilesChanged))
	p.filesFailed.Add(float64(s.FilesFailed))
	p.linksScanned.WithLabelValues("file").Add(float64(s.LinksScanned))
	p.linksChanged.WithLabelValues("file").Add(float64(s.LinksChanged))
	p.batchDuration.Observe(s.Elapsed.Seconds())
}

// ObserveResponse adds one buffered HTTP response. path is not used as a
// label to keep cardinality bounded.
func (p *PrometheusRecorder) ObserveResponse(_ string, res autoparam.Result) {
	if p == nil || p.responsesRewritten == nil {
		return
	}
	p.linksScanned.WithLabelValues("http").Add(float64(res.LinksScanned))
	p.linksChanged.WithLabelValues("http").Add(float64(res.LinksChanged))
	if res.Changed() {
		p.responsesRewritten.Inc()
	}
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
