package productservice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/cache"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/messaging"
)

// Chaves de cache, derivadas deterministicamente da forma da consulta.
const (
	keyAllProducts = "all_products"
	keyProductFmt  = "product_%d"
	keyCategoryFmt = "products_category_%s" // categoria em minúsculas
	keyLowStockFmt = "low_stock_%d"
)

// Janelas de expiração por forma de consulta (deslizante / absoluta).
// Estoque muda com frequência, por isso low-stock expira mais cedo.
var (
	expiryAllProducts = cache.Expiry{Sliding: 5 * time.Minute, Absolute: 10 * time.Minute}
	expiryProductByID = cache.Expiry{Sliding: 10 * time.Minute, Absolute: 30 * time.Minute}
	expiryByCategory  = cache.Expiry{Sliding: 5 * time.Minute, Absolute: 15 * time.Minute}
	expiryLowStock    = cache.Expiry{Sliding: 2 * time.Minute, Absolute: 5 * time.Minute}
)

// lowStockInvalidationMax delimita a faixa fixa de limiares (1..N) cujas
// chaves low-stock são invalidadas em toda mutação. Limiares acima desta
// faixa podem servir leituras obsoletas; limitação conhecida de escala.
const lowStockInvalidationMax = 10

// Service orquestra Repositório + Cache + validação da Entidade + publicação
// de mensagens para cada caso de uso de Produto. Implementa domain.ProductService.
type Service struct {
	repo      domain.ProductRepository
	cache     cache.Client
	publisher messaging.Publisher
	log       logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo domain.ProductRepository, cacheClient cache.Client, publisher messaging.Publisher, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		cache:     cacheClient,
		publisher: publisher,
		log:       log,
	}
}

// --- Leituras (Cache-Aside) ---

// GetAllProducts retorna o snapshot de todos os produtos, servindo do cache
// quando possível.
func (s *Service) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	if products, ok := s.cachedList(ctx, keyAllProducts); ok {
		return products, nil
	}

	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	s.storeList(ctx, keyAllProducts, products, expiryAllProducts)
	return products, nil
}

// GetProductByID busca um produto pelo ID, servindo do cache quando possível.
func (s *Service) GetProductByID(ctx context.Context, id int) (domain.Product, error) {
	key := fmt.Sprintf(keyProductFmt, id)

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var product domain.Product
		if json.Unmarshal([]byte(raw), &product) == nil {
			return product, nil
		}
		// Entrada ilegível: segue para o repositório e regrava.
	} else if err != cache.ErrCacheMiss {
		s.log.Warn("Falha ao ler do cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if raw, err := json.Marshal(product); err == nil {
		if err := s.cache.Set(ctx, key, raw, expiryProductByID); err != nil {
			s.log.Warn("Falha ao gravar no cache.", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	return product, nil
}

// GetProductsByCategory lista os produtos da categoria (igualdade sem
// distinção de maiúsculas), servindo do cache quando possível.
func (s *Service) GetProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	// Normaliza uma única vez: filtro e chave de cache precisam concordar,
	// senão uma consulta com espaços nas bordas gravaria um snapshot vazio
	// sob a mesma chave usada pela forma canônica.
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperror.NewValidationError("A categoria não pode ser vazia.")
	}

	key := fmt.Sprintf(keyCategoryFmt, strings.ToLower(category))
	if products, ok := s.cachedList(ctx, key); ok {
		return products, nil
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	products := []domain.Product{}
	for _, p := range all {
		if strings.EqualFold(p.Category, category) {
			products = append(products, p)
		}
	}

	s.storeList(ctx, key, products, expiryByCategory)
	return products, nil
}

// GetLowStockProducts lista os produtos com estoque igual ou abaixo do limiar.
func (s *Service) GetLowStockProducts(ctx context.Context, threshold int) ([]domain.Product, error) {
	if threshold < 0 {
		return nil, apperror.NewValidationError("O limiar de estoque não pode ser negativo.")
	}

	key := fmt.Sprintf(keyLowStockFmt, threshold)
	if products, ok := s.cachedList(ctx, key); ok {
		return products, nil
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	products := []domain.Product{}
	for _, p := range all {
		if p.IsLowStock(threshold) {
			products = append(products, p)
		}
	}

	s.storeList(ctx, key, products, expiryLowStock)
	return products, nil
}

// --- Mutações ---

// CreateProduct valida via a fábrica da Entidade, publica o novo produto no
// tópico (best-effort, sem aguardar confirmação), persiste e invalida caches.
func (s *Service) CreateProduct(ctx context.Context, name string, price decimal.Decimal, category string, stockQuantity int) (domain.Product, error) {
	product, err := domain.NewProduct(name, price, category, stockQuantity)
	if err != nil {
		return domain.Product{}, err
	}

	// Publicação fire-and-forget: falha não bloqueia o resultado de negócio.
	if err := s.publisher.Publish(ctx, messaging.ProductsTopic, product); err != nil {
		s.log.Warn("Falha ao publicar produto no tópico.", map[string]interface{}{
			"topic": messaging.ProductsTopic,
			"error": err.Error(),
		})
	}

	created, err := s.repo.Add(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.invalidate(ctx, created.ID, created.Category)

	s.log.Info("Produto criado.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// UpdateProduct valida a tupla completa de campos antes de aplicar qualquer
// mutação, persiste e invalida caches. ProductNotFound quando o ID não existe.
func (s *Service) UpdateProduct(ctx context.Context, id int, name string, price decimal.Decimal, category string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	previousCategory := product.Category
	if err := product.ApplyUpdate(name, price, category); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}

	// A categoria pode ter mudado: ambas as listas ficariam obsoletas.
	s.invalidate(ctx, id, previousCategory, product.Category)

	s.log.Info("Produto atualizado.", map[string]interface{}{"id": id})
	return nil
}

// DeleteProduct remove o produto e invalida caches. Remoção com estoque
// positivo é permitida, mas registrada como aviso.
func (s *Service) DeleteProduct(ctx context.Context, id int) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if product.StockQuantity > 0 {
		s.log.Warn("Removendo produto com estoque positivo.", map[string]interface{}{
			"id":    id,
			"stock": product.StockQuantity,
		})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id, product.Category)

	s.log.Info("Produto removido.", map[string]interface{}{"id": id})
	return nil
}

// CalculateProductDiscount delega a aritmética à Entidade; sem cache.
func (s *Service) CalculateProductDiscount(ctx context.Context, id int, discountPercentage decimal.Decimal) (decimal.Decimal, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return product.CalculateDiscountedPrice(discountPercentage)
}

// --- Auxiliares de cache ---

// cachedList tenta servir uma lista de produtos do cache.
func (s *Service) cachedList(ctx context.Context, key string) ([]domain.Product, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != cache.ErrCacheMiss {
			s.log.Warn("Falha ao ler do cache.", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return nil, false
	}

	var products []domain.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, false
	}
	return products, true
}

// storeList grava uma lista de produtos no cache; falhas só geram aviso.
func (s *Service) storeList(ctx context.Context, key string, products []domain.Product, expiry cache.Expiry) {
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, expiry); err != nil {
		s.log.Warn("Falha ao gravar no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// invalidate remove toda chave que poderia conter uma visão obsoleta do
// produto afetado: a chave por ID, a lista completa, a(s) chave(s) de
// categoria e as chaves low-stock da faixa fixa 1..lowStockInvalidationMax.
func (s *Service) invalidate(ctx context.Context, id int, categories ...string) {
	keys := []string{
		fmt.Sprintf(keyProductFmt, id),
		keyAllProducts,
	}
	seen := map[string]bool{}
	for _, category := range categories {
		key := fmt.Sprintf(keyCategoryFmt, strings.ToLower(strings.TrimSpace(category)))
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	for threshold := 1; threshold <= lowStockInvalidationMax; threshold++ {
		keys = append(keys, fmt.Sprintf(keyLowStockFmt, threshold))
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("Falha ao invalidar cache.", map[string]interface{}{"error": err.Error()})
	}
}
