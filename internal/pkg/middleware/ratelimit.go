package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"gocatalog/internal/pkg/cache"
)

// RateLimiter limita requisições por IP usando um contador no cache com
// expiração absoluta igual ao período. Excedido o limite, responde 429.
func RateLimiter(client cache.Client, limit int, period time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate-limit:" + ip
			ctx := context.Background()

			// Incrementa antes de ler: o contador nasce com a janela do
			// período e nunca é recriado sem expiração.
			if err := client.Incr(ctx, key, cache.Expiry{Absolute: period}); err != nil {
				writeError(w, r, http.StatusInternalServerError, "Ocorreu um erro inesperado.")
				return
			}

			count, err := client.GetInt(ctx, key)
			if err == cache.ErrCacheMiss {
				// Janela virou entre o Incr e a leitura: conta como primeira.
				count = 1
			} else if err != nil {
				writeError(w, r, http.StatusInternalServerError, "Ocorreu um erro inesperado.")
				return
			}

			if count > limit {
				writeError(w, r, http.StatusTooManyRequests, "Limite de requisições excedido.")
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-count))
			next.ServeHTTP(w, r)
		})
	}
}
