package portfolio

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application counters exported on /metrics. HTTP request
// metrics come from the echoprometheus middleware.
type Metrics struct {
	feedItemsSkipped prom.Counter
	starFetches      *prom.CounterVec
	ogRenders        *prom.CounterVec
	contentReloads   *prom.CounterVec
	documents        prom.Gauge
}

// NewMetrics constructs and registers the application metrics with reg.
func NewMetrics(reg prom.Registerer) *Metrics {
	m := &Metrics{
		feedItemsSkipped: prom.NewCounter(prom.CounterOpts{
			Namespace: "portfolio",
			Name:      "feed_items_skipped_total",
			Help:      "Feed items left out because their body failed to render",
		}),
		starFetches: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "portfolio",
			Name:      "star_fetches_total",
			Help:      "GitHub star count fetches by result",
		}, []string{"result"}),
		ogRenders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "portfolio",
			Name:      "og_renders_total",
			Help:      "Social preview image requests by result",
		}, []string{"result"}),
		contentReloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "portfolio",
			Name:      "content_reloads_total",
			Help:      "Content reloads by outcome",
		}, []string{"outcome"}),
		documents: prom.NewGauge(prom.GaugeOpts{
			Namespace: "portfolio",
			Name:      "documents",
			Help:      "Documents in the current content snapshot",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.feedItemsSkipped, m.starFetches, m.ogRenders, m.contentReloads, m.documents)
	}
	return m
}

func (m *Metrics) IncFeedItemSkipped() {
	if m == nil {
		return
	}
	m.feedItemsSkipped.Inc()
}

// IncStarFetch implements stars.Recorder.
func (m *Metrics) IncStarFetch(result string) {
	if m == nil {
		return
	}
	m.starFetches.WithLabelValues(result).Inc()
}

func (m *Metrics) IncOGRender(result string) {
	if m == nil {
		return
	}
	m.ogRenders.WithLabelValues(result).Inc()
}

func (m *Metrics) IncContentReload(outcome string) {
	if m == nil {
		return
	}
	m.contentReloads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetDocuments(n int) {
	if m == nil {
		return
	}
	m.documents.Set(float64(n))
}
