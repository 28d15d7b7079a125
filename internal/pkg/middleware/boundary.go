package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// HandlerFunc é a assinatura dos handlers da API: falhas são devolvidas como
// valores de erro tipados e traduzidas para HTTP em um único lugar, nunca
// formatadas pelo próprio handler.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Boundary é a fronteira de exceção por rota: executa o handler e mapeia o
// tipo da falha para status HTTP + corpo estruturado. Por interceptar antes,
// o Recover global nunca vê falhas já tratadas aqui.
func Boundary(log logger.Logger, next HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := next(w, r)
		if err == nil {
			return
		}

		status, category, message := apperror.MapToHTTPStatus(err)

		if status >= 500 {
			// Detalhe interno vai para o log, nunca para o cliente.
			log.Error("Falha inesperada ao atender requisição.", err)
			message = "Ocorreu um erro inesperado."
		} else {
			log.Debug("Requisição rejeitada.", map[string]interface{}{
				"path":     r.URL.Path,
				"method":   r.Method,
				"status":   status,
				"category": category,
			})
		}

		writeError(w, r, status, message)
	}
}

// Recover é a fronteira global do pipeline: converte panics do restante da
// cadeia em uma resposta 500 genérica, sem vazar detalhe interno.
func Recover(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Panic recuperado no pipeline.", &panicError{value: rec})
					writeError(w, r, http.StatusInternalServerError, "Ocorreu um erro inesperado.")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// panicError adapta um valor de panic para a interface error do logger.
type panicError struct {
	value interface{}
}

func (e *panicError) Error() string {
	if err, ok := e.value.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("panic: %v", e.value)
}

// writeError escreve o corpo de erro padronizado da API.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		StatusCode: status,
		Message:    message,
		Timestamp:  time.Now().UTC(),
		Path:       r.URL.Path,
		Method:     r.Method,
	})
}
