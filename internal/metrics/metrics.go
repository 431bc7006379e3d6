package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/d60-Lab/newsfeed/internal/model"
)

// Metrics 业务与 HTTP 指标，使用独立 registry 便于测试
type Metrics struct {
	registry *prometheus.Registry

	RequestDuration *prometheus.HistogramVec
	FollowEvents    *prometheus.CounterVec
	PostsPublished  prometheus.Counter
	PostLength      prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		FollowEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "follow_events_total",
			Help: "Follow graph changes by action.",
		}, []string{"action"}),
		PostsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posts_published_total",
			Help: "Total posts successfully created.",
		}),
		PostLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "post_content_length_chars",
			Help:    "Length of published post content.",
			Buckets: []float64{10, 25, 50, 100, 150, 200},
		}),
	}
	reg.MustRegister(
		m.RequestDuration,
		m.FollowEvents,
		m.PostsPublished,
		m.PostLength,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry 暴露给测试
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware 记录请求耗时，route 使用路由模板避免高基数
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Followed(int64, int64)   { m.FollowEvents.WithLabelValues("follow").Inc() }
func (m *Metrics) Unfollowed(int64, int64) { m.FollowEvents.WithLabelValues("unfollow").Inc() }

func (m *Metrics) Published(p *model.PostView) {
	m.PostsPublished.Inc()
	m.PostLength.Observe(float64(len([]rune(p.Content))))
}
