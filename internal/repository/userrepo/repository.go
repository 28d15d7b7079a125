package userrepo

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
)

// MemoryRepository implementa domain.UserRepository sobre um conjunto fixo de
// principais, semeado na inicialização. Serve como o armazenamento de
// credenciais de demonstração; as senhas são guardadas apenas como hash bcrypt.
type MemoryRepository struct {
	users map[string]domain.User
}

// seedUser descreve um principal fixo de demonstração.
type seedUser struct {
	username string
	password string
	role     domain.UserRole
}

// Credenciais fixas de demonstração. Em produção este repositório seria
// substituído por um armazenamento externo de usuários.
var demoUsers = []seedUser{
	{username: "admin", password: "password", role: domain.RoleAdmin},
	{username: "user", password: "password", role: domain.RoleUser},
}

// NewMemoryRepository cria o repositório e semeia os usuários fixos.
func NewMemoryRepository() (*MemoryRepository, error) {
	repo := &MemoryRepository{
		users: make(map[string]domain.User, len(demoUsers)),
	}

	for i, seed := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("falha ao gerar hash da senha de %s: %w", seed.username, err)
		}

		repo.users[seed.username] = domain.User{
			ID:           fmt.Sprintf("%d", i+1),
			Username:     seed.username,
			PasswordHash: string(hash),
			Role:         seed.role,
		}
	}

	return repo, nil
}

// FindByUsername busca um usuário pelo nome; NotFoundError quando ausente.
func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	user, ok := r.users[username]
	if !ok {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário %s não foi encontrado.", username))
	}
	return user, nil
}
