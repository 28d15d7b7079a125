package product

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/middleware"
)

// ProductRequest representa o payload de entrada para criação/atualização.
type ProductRequest struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stockQuantity"`
}

// DiscountResponse representa o resultado do cálculo de desconto.
type DiscountResponse struct {
	DiscountedPrice    decimal.Decimal `json:"discountedPrice"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
}

// Handler agrupa os handlers de Produto. Cada handler devolve as falhas como
// erro tipado; a tradução para HTTP acontece no Boundary da rota.
type Handler struct {
	Service domain.ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc domain.ProductService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// writeJSON escreve uma resposta de sucesso com o status informado.
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(data)
}

// pathID extrai e valida o segmento {id} da rota.
func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, apperror.NewValidationError("O ID do produto deve ser um número inteiro.")
	}
	return id, nil
}

// List lida com GET /products.
// @Summary Lista todos os produtos
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Product
// @Failure 401 {object} domain.ErrorResponse
// @Router /products [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	products, err := h.Service.GetAllProducts(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, products)
}

// GetByID lida com GET /products/{id}.
// @Summary Busca um produto pelo ID
// @Tags products
// @Produce json
// @Param id path int true "ID do produto"
// @Success 200 {object} domain.Product
// @Failure 404 {object} domain.ErrorResponse
// @Router /products/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	product, err := h.Service.GetProductByID(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, product)
}

// Create lida com POST /products (apenas role admin).
// @Summary Cria um novo produto
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Dados do produto"
// @Success 201 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Router /products [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	if claims, ok := middleware.GetUserClaimsFromContext(r.Context()); ok {
		h.Logger.Info("Criação de produto solicitada.", map[string]interface{}{
			"username": claims.Username,
			"role":     string(claims.Role),
		})
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
	}

	created, err := h.Service.CreateProduct(r.Context(), req.Name, req.Price, req.Category, req.StockQuantity)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, created)
}

// Update lida com PUT /products/{id}.
// @Summary Atualiza nome, preço e categoria de um produto
// @Tags products
// @Accept json
// @Param id path int true "ID do produto"
// @Param product body ProductRequest true "Novos dados do produto"
// @Success 204
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /products/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
	}

	if err := h.Service.UpdateProduct(r.Context(), id, req.Name, req.Price, req.Category); err != nil {
		return err
	}
	return writeJSON(w, http.StatusNoContent, nil)
}

// Delete lida com DELETE /products/{id}.
// @Summary Remove um produto
// @Tags products
// @Param id path int true "ID do produto"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /products/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.Service.DeleteProduct(r.Context(), id); err != nil {
		return err
	}
	return writeJSON(w, http.StatusNoContent, nil)
}

// GetByCategory lida com GET /products/category/{category}.
// @Summary Lista os produtos de uma categoria
// @Tags products
// @Produce json
// @Param category path string true "Categoria"
// @Success 200 {array} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Router /products/category/{category} [get]
func (h *Handler) GetByCategory(w http.ResponseWriter, r *http.Request) error {
	products, err := h.Service.GetProductsByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, products)
}

// GetLowStock lida com GET /products/low-stock?threshold=.
// @Summary Lista os produtos com estoque baixo
// @Tags products
// @Produce json
// @Param threshold query int false "Limiar de estoque (padrão 5)"
// @Success 200 {array} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Router /products/low-stock [get]
func (h *Handler) GetLowStock(w http.ResponseWriter, r *http.Request) error {
	threshold := domain.DefaultLowStockThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperror.NewValidationError("O limiar de estoque deve ser um número inteiro.")
		}
		threshold = parsed
	}

	products, err := h.Service.GetLowStockProducts(r.Context(), threshold)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, products)
}

// GetDiscount lida com GET /products/{id}/discount?discountPercentage=.
// @Summary Calcula o preço com desconto de um produto
// @Tags products
// @Produce json
// @Param id path int true "ID do produto"
// @Param discountPercentage query number true "Percentual de desconto [0,100]"
// @Success 200 {object} DiscountResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /products/{id}/discount [get]
func (h *Handler) GetDiscount(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	pct, err := decimal.NewFromString(r.URL.Query().Get("discountPercentage"))
	if err != nil {
		return apperror.NewValidationError("O percentual de desconto deve ser um número.")
	}

	discounted, err := h.Service.CalculateProductDiscount(r.Context(), id, pct)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, DiscountResponse{
		DiscountedPrice:    discounted,
		DiscountPercentage: pct,
	})
}
