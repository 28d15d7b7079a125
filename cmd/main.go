package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gocatalog/config"
	"gocatalog/internal/api/product"
	"gocatalog/internal/api/router"
	"gocatalog/internal/api/user"
	"gocatalog/internal/domain"
	"gocatalog/internal/pkg/cache"
	"gocatalog/internal/pkg/database"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/messaging"
	"gocatalog/internal/pkg/token"
	"gocatalog/internal/repository/productrepo"
	"gocatalog/internal/repository/userrepo"
	"gocatalog/internal/service/productservice"
	"gocatalog/internal/service/userservice"
)

func main() {
	// 1. Configuração e Inicialização
	// O godotenv.Load() procura por um arquivo chamado .env na raiz; se ele
	// não existir, as variáveis essenciais podem vir do ambiente do sistema.
	if err := godotenv.Load(); err != nil {
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	// 2. Infraestrutura: Repositório de Produto (PostgreSQL ou memória)
	var productRepo domain.ProductRepository
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Falha ao conectar ao banco de dados.", err)
		}
		defer db.Close()
		productRepo = productrepo.NewPostgresRepository(db, cfg.DBTimeout)
		log.Info("Repositório PostgreSQL inicializado.", nil)
	} else {
		productRepo = productrepo.NewMemoryRepository()
		log.Info("Repositório em memória inicializado (DATABASE_URL ausente).", nil)
	}

	// 3. Infraestrutura: Cache e Broker (Redis ou memória)
	var cacheClient cache.Client
	var broker messaging.Broker
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			log.Fatal("Falha ao conectar ao Redis.", err)
		}
		cacheClient = redisCache
		broker = messaging.NewRedisBroker(cfg.RedisAddr)
		log.Info("Cache e broker Redis inicializados.", nil)
	} else {
		cacheClient = cache.NewMemoryClient()
		broker = messaging.NewMemoryBroker()
		log.Info("Cache e broker em memória inicializados (REDIS_ADDR ausente).", nil)
	}

	// 4. Injeção de Dependências (Repository -> Service -> Handler)
	productSvc := productservice.NewService(productRepo, cacheClient, broker, log)
	productHandler := product.NewHandler(productSvc, log)

	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	userRepo, err := userrepo.NewMemoryRepository()
	if err != nil {
		log.Fatal("Falha ao semear usuários de demonstração.", err)
	}
	userSvc := userservice.NewService(userRepo, tokenSvc, log)
	userHandler := user.NewHandler(userSvc, log)

	// 5. Worker de consumo (tarefa de fundo com cancelamento)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	worker := messaging.NewProductConsumerWorker(broker, log)
	if err := worker.Start(workerCtx); err != nil {
		log.Fatal("Falha ao iniciar o worker de consumo.", err)
	}

	// 6. Roteador e Servidor
	r := router.NewRouter(productHandler, userHandler, tokenSvc, cacheClient, cfg, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 7. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor GoCatalog ouvindo.", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
