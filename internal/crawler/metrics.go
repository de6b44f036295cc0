package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var articlesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "wanreader",
	Subsystem: "harvester",
	Name:      "articles_total",
	Help:      "Articles seen by the crawl pipeline per provider and stage.",
}, []string{"provider", "stage"})

const (
	stageFetched   = "fetched"
	stageDuplicate = "duplicate"
	stagePublished = "published"
	stageFailed    = "failed"
)

func countArticles(provider, stage string, n int) {
	if n <= 0 {
		return
	}
	articlesTotal.WithLabelValues(provider, stage).Add(float64(n))
}
