package middleware

import "net/http"

// HTTPSRedirect redireciona requisições inseguras para HTTPS quando
// habilitado pela configuração; o redirect encerra o pipeline. Respeita
// X-Forwarded-Proto para operar atrás de um proxy de terminação TLS.
func HTTPSRedirect(enabled bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https" {
				target := "https://" + r.Host + r.URL.RequestURI()
				http.Redirect(w, r, target, http.StatusPermanentRedirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
