package userservice

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/token"
)

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(username string, role string) (string, error)
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// Service implementa domain.UserService: autenticação e emissão de JWT.
type Service struct {
	repo     domain.UserRepository
	tokenSvc TokenService
	log      logger.Logger
}

// NewService cria uma nova instância do serviço de usuário.
func NewService(repo domain.UserRepository, tokenSvc TokenService, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		tokenSvc: tokenSvc,
		log:      log,
	}
}

// Login autentica um usuário, verifica a senha e gera um JWT.
// Qualquer falha de credencial resulta no mesmo UnauthorizedError, sem
// revelar se o usuário existe (evita enumeração de contas).
func (s *Service) Login(ctx context.Context, username string, password string) (string, error) {
	if username == "" || password == "" {
		return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	tokenString, err := s.tokenSvc.GenerateToken(user.Username, string(user.Role))
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.log.Info("Login bem-sucedido.", map[string]interface{}{"username": user.Username})
	return tokenString, nil
}
