// Package metrics содержит счётчики Prometheus для входа, регистрации и чата.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/chat-subscription/internal/lib/apperr"
)

// Значения метки action.
const (
	ActionRegister = "register"
	ActionLogin    = "login"
)

// Metrics хранит счётчики сервиса. Нулевой указатель допустим и ничего не считает.
type Metrics struct {
	registry *prometheus.Registry
	auth     *prometheus.CounterVec
	chat     *prometheus.CounterVec
}

// New создаёт отдельный реестр и регистрирует в нём счётчики
// вместе со стандартными коллекторами процесса и рантайма.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		auth: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chat_subscription",
			Name:      "auth_attempts_total",
			Help:      "Registration and login attempts by outcome.",
		}, []string{"action", "outcome"}),
		chat: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chat_subscription",
			Name:      "chat_requests_total",
			Help:      "Chat completion requests by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveAuth учитывает попытку регистрации или входа.
func (m *Metrics) ObserveAuth(action string, err error) {
	if m == nil {
		return
	}
	m.auth.WithLabelValues(action, Outcome(err)).Inc()
}

// ObserveChat учитывает запрос к чату.
func (m *Metrics) ObserveChat(err error) {
	if m == nil {
		return
	}
	m.chat.WithLabelValues(Outcome(err)).Inc()
}

// Handler отдаёт метрики реестра в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Outcome переводит ошибку в значение метки outcome.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, apperr.ErrDuplicateAccount):
		return "duplicate"
	case errors.Is(err, apperr.ErrAccountExpired):
		return "expired"
	case errors.Is(err, apperr.ErrUpstream):
		return "upstream_error"
	default:
		return "error"
	}
}
