package user

import (
	"encoding/json"
	"net/http"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// TokenResponse representa o corpo de sucesso do login.
type TokenResponse struct {
	Token string `json:"token"`
}

// Handler agrupa os handlers de usuário.
type Handler struct {
	Service domain.UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc domain.UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// Login lida com POST /login.
// @Summary Autentica um usuário e retorna um JWT
// @Description Recebe username/senha, valida as credenciais e emite um JSON Web Token.
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body domain.Credentials true "Credenciais do usuário"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} domain.ErrorResponse
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		return apperror.NewValidationError("Payload JSON inválido.")
	}

	token, err := h.Service.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(TokenResponse{Token: token})
}
