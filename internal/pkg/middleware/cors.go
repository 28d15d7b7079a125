package middleware

import "net/http"

// CORS aplica a política permissiva de liberação total. Não é uma fronteira
// de segurança neste design; apenas viabiliza clientes de demonstração.
// Preflights (OPTIONS) são respondidos aqui com 204 e encerram o pipeline.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
