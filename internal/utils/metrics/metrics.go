// Package metrics exposes Prometheus counters for HTTP traffic and cooking activity.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	cookingLogs   *prometheus.CounterVec
	recipeShares  prometheus.Counter
	recipesCloned prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kitchenlog",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kitchenlog",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		cookingLogs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kitchenlog",
			Name:      "cooking_log_mutations_total",
			Help:      "Cooking log writes by operation.",
		}, []string{"op"}),
		recipeShares: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kitchenlog",
			Name:      "recipe_shares_total",
			Help:      "Whitelist grants that added a new user.",
		}),
		recipesCloned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kitchenlog",
			Name:      "recipes_cloned_total",
			Help:      "Recipes cloned into another user's kitchen.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.cookingLogs, m.recipeShares, m.recipesCloned)
	return m
}

// Middleware records one sample per request, labelled by the matched route pattern.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		m.requests.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}

// The recorders below are safe on a nil *Metrics so services can run without it.

func (m *Metrics) CookingLog(op string) {
	if m == nil {
		return
	}
	m.cookingLogs.WithLabelValues(op).Inc()
}

func (m *Metrics) RecipeShared() {
	if m == nil {
		return
	}
	m.recipeShares.Inc()
}

func (m *Metrics) RecipeCloned() {
	if m == nil {
		return
	}
	m.recipesCloned.Inc()
}
