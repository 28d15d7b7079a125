package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"gocatalog/internal/pkg/logger"
)

// Instrumentation mede o tempo de processamento, carimba os cabeçalhos de
// diagnóstico e registra cada requisição. Não altera o fluxo de controle.
//
// Cabeçalhos adicionados: X-Powered-By, X-Processed-At, X-Request-ID e
// X-Elapsed-Milliseconds (este último gravado imediatamente antes do status,
// já que cabeçalhos não podem mudar depois do primeiro write).
func Instrumentation(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()

			w.Header().Set("X-Powered-By", "gocatalog")
			w.Header().Set("X-Processed-At", time.Now().UTC().Format(time.RFC3339Nano))
			w.Header().Set("X-Request-ID", requestID)

			rec := &timedResponseWriter{ResponseWriter: w, start: time.Now()}
			next.ServeHTTP(rec, r)

			log.Info("Requisição atendida.", map[string]interface{}{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.Status(),
				"elapsed_ms": time.Since(rec.start).Milliseconds(),
			})
		})
	}
}

// timedResponseWriter intercepta o primeiro write para carimbar o tempo
// decorrido e memorizar o status devolvido.
type timedResponseWriter struct {
	http.ResponseWriter
	start       time.Time
	status      int
	wroteHeader bool
}

func (t *timedResponseWriter) WriteHeader(status int) {
	if t.wroteHeader {
		return
	}
	t.wroteHeader = true
	t.status = status

	elapsed := time.Since(t.start).Milliseconds()
	t.Header().Set("X-Elapsed-Milliseconds", strconv.FormatInt(elapsed, 10))
	t.ResponseWriter.WriteHeader(status)
}

func (t *timedResponseWriter) Write(p []byte) (int, error) {
	if !t.wroteHeader {
		t.WriteHeader(http.StatusOK)
	}
	return t.ResponseWriter.Write(p)
}

// Status devolve o status gravado (200 quando o handler nunca o define).
func (t *timedResponseWriter) Status() int {
	if !t.wroteHeader {
		return http.StatusOK
	}
	return t.status
}
