package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Pinger é implementado pelas dependências verificadas no healthcheck
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthcheckHandler responde 503 quando alguma dependência não responde
func HealthcheckHandler(dependencies map[string]Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(dependencies))
		for name, dependency := range dependencies {
			if err := dependency.Ping(ctx); err != nil {
				logrus.WithError(err).WithField("dependency", name).Warn("Dependência indisponível no healthcheck")
				checks[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "up"
		}

		writeJSON(w, status, map[string]any{
			"time":   time.Now().Format(time.RFC3339),
			"checks": checks,
		})
	})
}
