package domain

import "time"

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	StatusCode int       `json:"statusCode" example:"400"`
	Message    string    `json:"message" example:"O nome do produto é obrigatório."`
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path" example:"/products"`
	Method     string    `json:"method" example:"POST"`
}
