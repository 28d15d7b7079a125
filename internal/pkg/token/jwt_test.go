package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gocatalog/internal/pkg/token"
)

// TestGenerateAndValidateToken verifica o ciclo completo: emissão e validação
// com as claims preservadas.
func TestGenerateAndValidateToken(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)

	tokenString, err := svc.GenerateToken("admin", "admin")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := svc.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, token.Issuer, claims.Issuer)
	assert.Contains(t, claims.Audience, token.Audience)
}

// TestValidateToken_Fail_WrongSecret rejeita tokens assinados com outra chave.
func TestValidateToken_Fail_WrongSecret(t *testing.T) {
	issuer := token.NewService("chave-a", time.Hour)
	validator := token.NewService("chave-b", time.Hour)

	tokenString, err := issuer.GenerateToken("admin", "admin")
	assert.NoError(t, err)

	_, err = validator.ValidateToken(tokenString)
	assert.Error(t, err)
}

// TestValidateToken_Fail_Expired rejeita tokens com prazo de vida vencido.
func TestValidateToken_Fail_Expired(t *testing.T) {
	svc := token.NewService("test-secret", -time.Minute)

	tokenString, err := svc.GenerateToken("admin", "admin")
	assert.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.Error(t, err)
}

// TestValidateToken_Fail_Garbage rejeita strings que não são JWTs.
func TestValidateToken_Fail_Garbage(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)

	_, err := svc.ValidateToken("isto-não-é-um-token")
	assert.Error(t, err)
}
