package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by operation type. Fed by the
// cache package's client hook.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "wayfare_redis_errors_total",
	Help: "Total number of Redis errors by operation type",
}, []string{"operation"})

// ReviewDecisions counts moderation review outcomes.
var ReviewDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "wayfare_review_decisions_total",
	Help: "Total number of review decisions by outcome",
}, []string{"decision"})

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
