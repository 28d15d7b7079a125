package router

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"gocatalog/config"
	"gocatalog/internal/api/product"
	"gocatalog/internal/api/user"
	"gocatalog/internal/domain"
	"gocatalog/internal/pkg/cache"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/middleware"
)

// NewRouter monta o pipeline HTTP completo. Estágios, do mais externo para o
// mais interno, cada um podendo encerrar a requisição:
//
//	HTTPSRedirect -> CORS -> Instrumentation -> RateLimiter -> Authenticate
//	-> Recover -> mux -> [gate de autorização da rota] -> Boundary -> handler
//
// Authenticate apenas anexa as claims; a rejeição (401/403) acontece nos
// gates por rota. O Boundary por rota traduz falhas tipadas; o Recover global
// só vê panics que nenhum Boundary tratou.
func NewRouter(
	productHandler *product.Handler,
	userHandler *user.Handler,
	tokenSvc middleware.TokenService,
	cacheClient cache.Client,
	cfg *config.Config,
	log logger.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check e documentação
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Autenticação
	mux.HandleFunc("POST /login", middleware.Boundary(log, userHandler.Login))

	// Produtos
	mux.HandleFunc("GET /products",
		middleware.RequireAuth(log, middleware.Boundary(log, productHandler.List)))
	mux.HandleFunc("POST /products",
		middleware.RequireRole(log, domain.RoleAdmin, middleware.Boundary(log, productHandler.Create)))
	mux.HandleFunc("GET /products/low-stock", middleware.Boundary(log, productHandler.GetLowStock))
	mux.HandleFunc("GET /products/category/{category}", middleware.Boundary(log, productHandler.GetByCategory))
	mux.HandleFunc("GET /products/{id}", middleware.Boundary(log, productHandler.GetByID))
	mux.HandleFunc("GET /products/{id}/discount", middleware.Boundary(log, productHandler.GetDiscount))
	mux.HandleFunc("PUT /products/{id}", middleware.Boundary(log, productHandler.Update))
	mux.HandleFunc("DELETE /products/{id}", middleware.Boundary(log, productHandler.Delete))

	// Middlewares globais, aplicados de dentro para fora.
	var handler http.Handler = mux
	handler = middleware.Recover(log)(handler)
	handler = middleware.Authenticate(tokenSvc, log)(handler)
	handler = middleware.RateLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)(handler)
	handler = middleware.Instrumentation(log)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.HTTPSRedirect(cfg.EnforceHTTPS)(handler)

	return handler
}

// PingHandler é o health check da API.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
