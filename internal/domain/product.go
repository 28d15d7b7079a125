package domain

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	apperror "gocatalog/internal/errors"
)

func init() {
	// Preço deve ser serializado como número JSON (9.99), não como string ("9.99").
	decimal.MarshalJSONWithoutQuotes = true
}

// Limites de negócio do Produto. Toda transição de estado observável
// (criação e cada atualização) precisa respeitar estas restrições.
const (
	MinNameLength = 2
	MaxNameLength = 100
)

// MaxPrice é o teto de preço permitido para um produto.
var MaxPrice = decimal.NewFromInt(10000)

// DefaultLowStockThreshold é o limiar padrão para considerar estoque baixo.
const DefaultLowStockThreshold = 5

// Product representa o item do catálogo (a Entidade).
// O ID é atribuído pelo Repositório na persistência, nunca pelo chamador.
type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stockQuantity"`
}

// NewProduct é a fábrica validadora da Entidade. Em caso de falha de
// validação, nenhum Produto é construído e o erro carrega uma única
// mensagem legível.
func NewProduct(name string, price decimal.Decimal, category string, stockQuantity int) (Product, error) {
	name, err := validateName(name)
	if err != nil {
		return Product{}, err
	}
	if err := validatePrice(price); err != nil {
		return Product{}, err
	}
	category, err = validateCategory(category)
	if err != nil {
		return Product{}, err
	}
	if err := validateStock(stockQuantity); err != nil {
		return Product{}, err
	}

	return Product{
		Name:          name,
		Price:         price,
		Category:      category,
		StockQuantity: stockQuantity,
	}, nil
}

// UpdateName revalida e aplica um novo nome. Em caso de falha a Entidade
// permanece inalterada.
func (p *Product) UpdateName(newName string) error {
	name, err := validateName(newName)
	if err != nil {
		return err
	}
	p.Name = name
	return nil
}

// UpdatePrice revalida e aplica um novo preço.
func (p *Product) UpdatePrice(newPrice decimal.Decimal) error {
	if err := validatePrice(newPrice); err != nil {
		return err
	}
	p.Price = newPrice
	return nil
}

// UpdateCategory revalida e aplica uma nova categoria.
func (p *Product) UpdateCategory(newCategory string) error {
	category, err := validateCategory(newCategory)
	if err != nil {
		return err
	}
	p.Category = category
	return nil
}

// UpdateStock revalida e aplica uma nova quantidade de estoque.
func (p *Product) UpdateStock(newQuantity int) error {
	if err := validateStock(newQuantity); err != nil {
		return err
	}
	p.StockQuantity = newQuantity
	return nil
}

// ApplyUpdate valida a tupla completa (nome, preço, categoria) ANTES de
// aplicar qualquer campo. Assim uma falha em um campo posterior não deixa
// campos anteriores já mutados na instância.
func (p *Product) ApplyUpdate(name string, price decimal.Decimal, category string) error {
	validName, err := validateName(name)
	if err != nil {
		return err
	}
	if err := validatePrice(price); err != nil {
		return err
	}
	validCategory, err := validateCategory(category)
	if err != nil {
		return err
	}

	p.Name = validName
	p.Price = price
	p.Category = validCategory
	return nil
}

// IsInStock indica se o produto tem estoque disponível.
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}

// IsLowStock indica se o estoque está igual ou abaixo do limiar informado.
func (p *Product) IsLowStock(threshold int) bool {
	return p.StockQuantity <= threshold
}

// IsExpensive indica se o produto custa mais de 1000.
func (p *Product) IsExpensive() bool {
	return p.Price.GreaterThan(decimal.NewFromInt(1000))
}

// CalculateDiscountedPrice calcula price * (1 - pct/100) com aritmética
// decimal exata. O percentual deve estar em [0, 100].
func (p *Product) CalculateDiscountedPrice(discountPercentage decimal.Decimal) (decimal.Decimal, error) {
	if discountPercentage.IsNegative() || discountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Decimal{}, apperror.NewValidationError("O percentual de desconto deve estar entre 0 e 100.")
	}

	factor := decimal.NewFromInt(1).Sub(discountPercentage.Div(decimal.NewFromInt(100)))
	return p.Price.Mul(factor), nil
}

// --- Regras de validação por campo ---

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.NewValidationError("O nome do produto é obrigatório.")
	}
	if len(name) < MinNameLength {
		return "", apperror.NewValidationError("O nome do produto deve ter pelo menos 2 caracteres.")
	}
	if len(name) > MaxNameLength {
		return "", apperror.NewValidationError("O nome do produto não pode exceder 100 caracteres.")
	}
	return name, nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return apperror.NewValidationError("O preço do produto não pode ser negativo.")
	}
	if price.GreaterThan(MaxPrice) {
		return apperror.NewValidationError("O preço do produto não pode exceder 10000.")
	}
	return nil
}

func validateCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", apperror.NewValidationError("A categoria do produto é obrigatória.")
	}
	return category, nil
}

func validateStock(quantity int) error {
	if quantity < 0 {
		return apperror.NewValidationError("A quantidade em estoque não pode ser negativa.")
	}
	return nil
}

// --- Interfaces de Contrato ---

// ProductRepository é a interface que a camada de Persistência DEVE implementar.
// GetByID e Delete retornam NotFoundError quando o ID não existe.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int) (Product, error)
	Add(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id int) error
}

// ProductService é a interface que a camada de Serviço DEVE implementar.
// Define o que o Handler (Camada API) pode pedir à lógica de negócio.
type ProductService interface {
	GetAllProducts(ctx context.Context) ([]Product, error)
	GetProductByID(ctx context.Context, id int) (Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]Product, error)
	GetLowStockProducts(ctx context.Context, threshold int) ([]Product, error)
	CreateProduct(ctx context.Context, name string, price decimal.Decimal, category string, stockQuantity int) (Product, error)
	UpdateProduct(ctx context.Context, id int, name string, price decimal.Decimal, category string) error
	DeleteProduct(ctx context.Context, id int) error
	CalculateProductDiscount(ctx context.Context, id int, discountPercentage decimal.Decimal) (decimal.Decimal, error)
}
