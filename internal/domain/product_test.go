package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
)

// TestNewProduct_Success testa a criação com campos válidos e o trim de nome/categoria.
func TestNewProduct_Success(t *testing.T) {
	p, err := domain.NewProduct("  Widget  ", decimal.RequireFromString("9.99"), "  Tools ", 3)

	assert.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, "Tools", p.Category)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 3, p.StockQuantity)
	assert.Equal(t, 0, p.ID) // O ID é atribuído pelo Repositório, nunca pela fábrica.
}

// TestNewProduct_Fail_Validation cobre cada restrição de campo da fábrica.
func TestNewProduct_Fail_Validation(t *testing.T) {
	price := decimal.NewFromInt(10)

	cases := []struct {
		name     string
		build    func() (domain.Product, error)
	}{
		{"nome vazio", func() (domain.Product, error) {
			return domain.NewProduct("   ", price, "Tools", 0)
		}},
		{"nome curto", func() (domain.Product, error) {
			return domain.NewProduct("A", price, "Tools", 0)
		}},
		{"nome longo", func() (domain.Product, error) {
			long := make([]byte, 101)
			for i := range long {
				long[i] = 'x'
			}
			return domain.NewProduct(string(long), price, "Tools", 0)
		}},
		{"preço negativo", func() (domain.Product, error) {
			return domain.NewProduct("Widget", decimal.NewFromInt(-1), "Tools", 0)
		}},
		{"preço acima do teto", func() (domain.Product, error) {
			return domain.NewProduct("Widget", decimal.RequireFromString("10000.01"), "Tools", 0)
		}},
		{"categoria vazia", func() (domain.Product, error) {
			return domain.NewProduct("Widget", price, "  ", 0)
		}},
		{"estoque negativo", func() (domain.Product, error) {
			return domain.NewProduct("Widget", price, "Tools", -1)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.build()
			assert.Error(t, err)
			assert.IsType(t, &apperror.ValidationError{}, err)
		})
	}
}

// TestUpdatePrice_Fail_NoStateChange garante que uma atualização inválida
// deixa a Entidade intacta.
func TestUpdatePrice_Fail_NoStateChange(t *testing.T) {
	p, err := domain.NewProduct("Widget", decimal.NewFromInt(100), "Tools", 0)
	assert.NoError(t, err)

	err = p.UpdatePrice(decimal.RequireFromString("10000.50"))
	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(100)))

	err = p.UpdatePrice(decimal.NewFromInt(-5))
	assert.Error(t, err)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(100)))
}

// TestApplyUpdate_Atomic garante que uma tupla com campo inválido não aplica
// nenhuma mutação (nem mesmo dos campos válidos anteriores).
func TestApplyUpdate_Atomic(t *testing.T) {
	p, err := domain.NewProduct("Widget", decimal.NewFromInt(100), "Tools", 0)
	assert.NoError(t, err)

	err = p.ApplyUpdate("Gadget", decimal.NewFromInt(50), "   ")
	assert.Error(t, err)
	assert.Equal(t, "Widget", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "Tools", p.Category)

	err = p.ApplyUpdate("Gadget", decimal.NewFromInt(50), "Gadgets")
	assert.NoError(t, err)
	assert.Equal(t, "Gadget", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "Gadgets", p.Category)
}

// TestCalculateDiscountedPrice_Exact verifica a aritmética decimal exata:
// 100 com 20% de desconto é exatamente 80.
func TestCalculateDiscountedPrice_Exact(t *testing.T) {
	p, err := domain.NewProduct("Widget", decimal.NewFromInt(100), "Tools", 0)
	assert.NoError(t, err)

	discounted, err := p.CalculateDiscountedPrice(decimal.NewFromInt(20))
	assert.NoError(t, err)
	assert.True(t, discounted.Equal(decimal.NewFromInt(80)), "esperado 80, obtido %s", discounted)

	// Limites do percentual
	discounted, err = p.CalculateDiscountedPrice(decimal.NewFromInt(0))
	assert.NoError(t, err)
	assert.True(t, discounted.Equal(decimal.NewFromInt(100)))

	discounted, err = p.CalculateDiscountedPrice(decimal.NewFromInt(100))
	assert.NoError(t, err)
	assert.True(t, discounted.Equal(decimal.NewFromInt(0)))
}

// TestCalculateDiscountedPrice_Fail_OutOfRange rejeita percentuais fora de [0,100].
func TestCalculateDiscountedPrice_Fail_OutOfRange(t *testing.T) {
	p, err := domain.NewProduct("Widget", decimal.NewFromInt(100), "Tools", 0)
	assert.NoError(t, err)

	_, err = p.CalculateDiscountedPrice(decimal.NewFromInt(150))
	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)

	_, err = p.CalculateDiscountedPrice(decimal.NewFromInt(-1))
	assert.Error(t, err)
}

// TestStockPredicates cobre IsInStock, IsLowStock e IsExpensive.
func TestStockPredicates(t *testing.T) {
	p, err := domain.NewProduct("Widget", decimal.NewFromInt(1500), "Tools", 5)
	assert.NoError(t, err)

	assert.True(t, p.IsInStock())
	assert.True(t, p.IsLowStock(5)) // limiar inclusivo
	assert.False(t, p.IsLowStock(4))
	assert.True(t, p.IsExpensive())

	assert.NoError(t, p.UpdateStock(0))
	assert.False(t, p.IsInStock())
	assert.True(t, p.IsLowStock(domain.DefaultLowStockThreshold))
}
