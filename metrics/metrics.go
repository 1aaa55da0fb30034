package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so each app instance (and each test) is isolated.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	QuestionsCreated prometheus.Counter
	QuestionsDeleted prometheus.Counter
	QuizDraws        *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trivia_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "code"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trivia_http_request_duration_seconds",
				Help:    "Histogram of response latency (seconds) for HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		QuestionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trivia_questions_created_total",
			Help: "Questions created through the API",
		}),
		QuestionsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trivia_questions_deleted_total",
			Help: "Questions deleted through the API",
		}),
		QuizDraws: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trivia_quiz_draws_total",
				Help: "Quiz draws by outcome",
			},
			[]string{"outcome"},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.RequestDuration,
		m.QuestionsCreated,
		m.QuestionsDeleted,
		m.QuizDraws,
	)
	return m
}

// Middleware records request count and latency per matched route. Handler
// errors are rendered first so the recorded code is the one the client sees.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		route := c.Route().Path
		m.RequestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(c.Response().StatusCode())).Inc()
		m.RequestDuration.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return nil
	}
}

func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
