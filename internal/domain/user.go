package domain

import "context"

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole `json:"role"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// Credentials representa o payload de entrada para o login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserRepository define o contrato de persistência para a entidade User.
// FindByUsername retorna NotFoundError quando o usuário não existe.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (User, error)
}

// UserService define o contrato de lógica de negócio para a entidade User.
// Login retorna o JWT assinado ou UnauthorizedError, sem distinguir usuário
// inexistente de senha incorreta.
type UserService interface {
	Login(ctx context.Context, username string, password string) (string, error)
}
