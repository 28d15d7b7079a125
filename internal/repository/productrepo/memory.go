package productrepo

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
)

// MemoryRepository implementa domain.ProductRepository sobre um slice em
// ordem de inserção. É o armazenamento padrão de demonstração; um mutex
// serializa todo acesso ao slice.
type MemoryRepository struct {
	mu       sync.Mutex
	products []domain.Product
}

// NewMemoryRepository cria e retorna um novo repositório em memória.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// GetAll retorna um snapshot de todos os produtos em ordem de inserção.
func (r *MemoryRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]domain.Product, len(r.products))
	copy(snapshot, r.products)
	return snapshot, nil
}

// GetByID busca um produto pelo ID; NotFoundError quando ausente.
func (r *MemoryRepository) GetByID(ctx context.Context, id int) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %d não foi encontrado.", id))
}

// Add persiste um novo produto, atribuindo id = max(ids existentes) + 1
// (ou 1 se vazio). O ID nunca vem do chamador.
func (r *MemoryRepository) Add(ctx context.Context, product domain.Product) (domain.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return domain.Product{}, apperror.NewValidationError("O nome do produto é obrigatório.")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	nextID := 1
	for _, p := range r.products {
		if p.ID >= nextID {
			nextID = p.ID + 1
		}
	}

	product.ID = nextID
	r.products = append(r.products, product)
	return product, nil
}

// Update sobrescreve todos os campos mutáveis do produto com o ID informado;
// NotFoundError quando ausente.
func (r *MemoryRepository) Update(ctx context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == product.ID {
			r.products[i] = product
			return nil
		}
	}
	return apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %d não foi encontrado.", product.ID))
}

// Delete remove permanentemente o produto com o ID informado (sem soft-delete);
// NotFoundError quando ausente.
func (r *MemoryRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %d não foi encontrado.", id))
}
