package productrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
)

// PostgresRepository implementa domain.ProductRepository sobre o PostgreSQL.
// É a alternativa durável ao repositório em memória, selecionada pela
// configuração quando DATABASE_URL está presente.
type PostgresRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

// NewPostgresRepository cria e retorna uma nova instância do Repositório,
// injetando a conexão de Infraestrutura.
func NewPostgresRepository(db *sql.DB, dbTimeout time.Duration) *PostgresRepository {
	return &PostgresRepository{
		DB:        db,
		DBTimeout: dbTimeout,
	}
}

// GetAll retorna todos os produtos em ordem de inserção (id crescente).
func (r *PostgresRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
		SELECT id, name, price, category, stock_quantity
		FROM products
		ORDER BY id`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar produtos", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.StockQuantity); err != nil {
			return nil, apperror.NewDBError("Falha ao mapear produto", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao percorrer produtos", err)
	}

	return products, nil
}

// GetByID busca um produto pelo ID; NotFoundError quando ausente.
func (r *PostgresRepository) GetByID(ctx context.Context, id int) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
		SELECT id, name, price, category, stock_quantity
		FROM products
		WHERE id = $1`

	var p domain.Product
	err := r.DB.QueryRowContext(ctxTimeout, query, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.StockQuantity)

	if err == sql.ErrNoRows {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %d não foi encontrado.", id))
	}
	if err != nil {
		return domain.Product{}, apperror.NewDBError("Falha ao buscar produto", err)
	}

	return p, nil
}

// Add persiste um novo produto; o ID é atribuído pela sequência da tabela.
func (r *PostgresRepository) Add(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
		INSERT INTO products (name, price, category, stock_quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		product.Name,
		product.Price,
		product.Category,
		product.StockQuantity,
	).Scan(&product.ID)

	if err != nil {
		return domain.Product{}, apperror.NewDBError("Falha ao inserir produto", err)
	}

	return product, nil
}

// Update sobrescreve todos os campos mutáveis; NotFoundError quando ausente.
func (r *PostgresRepository) Update(ctx context.Context, product domain.Product) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
		UPDATE products
		SET name = $1, price = $2, category = $3, stock_quantity = $4
		WHERE id = $5`

	result, err := r.DB.ExecContext(ctxTimeout, query,
		product.Name,
		product.Price,
		product.Category,
		product.StockQuantity,
		product.ID,
	)
	if err != nil {
		return apperror.NewDBError("Falha ao atualizar produto", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar atualização", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %d não foi encontrado.", product.ID))
	}

	return nil
}

// Delete remove permanentemente o produto; NotFoundError quando ausente.
func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("Falha ao remover produto", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar remoção", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %d não foi encontrado.", id))
	}

	return nil
}
