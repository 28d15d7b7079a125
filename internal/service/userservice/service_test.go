package userservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/token"
	"gocatalog/internal/repository/userrepo"
	"gocatalog/internal/service/userservice"
)

func newTestService(t *testing.T) (*userservice.Service, *token.Service) {
	t.Helper()

	repo, err := userrepo.NewMemoryRepository()
	assert.NoError(t, err)

	tokenSvc := token.NewService("test-secret", time.Hour)
	return userservice.NewService(repo, tokenSvc, logger.NewLogger("error")), tokenSvc
}

// TestLogin_Success verifica o login do usuário semeado e as claims do token emitido.
func TestLogin_Success(t *testing.T) {
	svc, tokenSvc := newTestService(t)

	tokenString, err := svc.Login(context.Background(), "admin", "password")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := tokenSvc.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

// TestLogin_Fail_WrongPassword retorna UnauthorizedError sem revelar o motivo.
func TestLogin_Fail_WrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "admin", "errada")
	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	assert.Equal(t, "Credenciais inválidas.", err.Error())
}

// TestLogin_Fail_UnknownUser retorna o mesmo erro do caso de senha errada,
// para não permitir enumeração de contas.
func TestLogin_Fail_UnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "inexistente", "password")
	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	assert.Equal(t, "Credenciais inválidas.", err.Error())
}

// TestLogin_Fail_EmptyCredentials rejeita usuário ou senha vazios.
func TestLogin_Fail_EmptyCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "", "password")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)

	_, err = svc.Login(ctx, "admin", "")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}
