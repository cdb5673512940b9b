package common

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PageRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsroom_page_renders_total",
		Help: "Page render contexts built, by page type.",
	}, []string{"page_type"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsroom_page_cache_lookups_total",
		Help: "Page cache lookups, by result.",
	}, []string{"result"})
)

func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
