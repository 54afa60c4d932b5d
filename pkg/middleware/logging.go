package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/vfg2006/boutique-manager-api/pkg/apiErrors"
	"github.com/vfg2006/boutique-manager-api/pkg/log"
)

// CorrelationIDHeader é devolvido em todas as respostas e aceito na requisição
const CorrelationIDHeader = "X-Correlation-ID"

const slowRequestThreshold = 500 * time.Millisecond

const contextKeyTrace contextKey = "request_trace"

// requestTrace é preenchido ao longo da cadeia. O AuthMiddleware roda depois do
// LoggingMiddleware e anota aqui o usuário da sessão.
type requestTrace struct {
	userID string
}

func traceFromContext(ctx context.Context) *requestTrace {
	trace, _ := ctx.Value(contextKeyTrace).(*requestTrace)
	return trace
}

func markRequestUser(ctx context.Context, userID string) {
	if trace := traceFromContext(ctx); trace != nil {
		trace.userID = userID
	}
}

// LoggingMiddleware registra uma linha por requisição concluída, com o usuário da
// sessão quando autenticada. Em desenvolvimento o pkg/log já reduz os campos.
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, correlationID := log.WithCorrelationID(r.Context(), r.Header.Get(CorrelationIDHeader))
			trace := &requestTrace{}
			ctx = context.WithValue(ctx, contextKeyTrace, trace)
			w.Header().Set(CorrelationIDHeader, correlationID)

			lrw := newLoggingResponseWriter(w)
			startTime := time.Now()

			next.ServeHTTP(lrw, r.WithContext(ctx))

			elapsed := time.Since(startTime)
			fields := log.Fields{
				"correlation_id": correlationID,
				"method":         r.Method,
				"path":           r.URL.Path,
				"status_code":    lrw.statusCode,
				"duration_ms":    elapsed.Milliseconds(),
				"bytes":          lrw.bytes,
			}
			if trace.userID != "" {
				fields["user_id"] = trace.userID
			}
			if elapsed > slowRequestThreshold {
				fields["slow"] = true
			}

			logger := log.L.WithFields(fields)
			switch {
			case lrw.statusCode >= 500:
				logger.Error("Requisição finalizada com erro")
			case lrw.statusCode >= 400:
				logger.Warn("Requisição finalizada com aviso")
			default:
				logger.Info("Requisição finalizada")
			}
		})
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func newLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytes += n
	return n, err
}

// LogPanicMiddleware transforma panics em SRV_001 com a pilha no log
func LogPanicMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}

				stack := make([]byte, 4096)
				stack = stack[:runtime.Stack(stack, false)]

				fields := log.Fields{
					"method":      r.Method,
					"path":        r.URL.Path,
					"stack_trace": string(stack),
				}
				if trace := traceFromContext(r.Context()); trace != nil && trace.userID != "" {
					fields["user_id"] = trace.userID
				}

				log.ForContext(r.Context()).
					WithError(fmt.Errorf("panic: %v", recovered)).
					WithFields(fields).
					Error("Erro não tratado na aplicação")

				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
