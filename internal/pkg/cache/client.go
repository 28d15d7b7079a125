package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss é retornado quando a chave não é encontrada no cache.
var ErrCacheMiss = errors.New("cache: chave não encontrada")

// Expiry define a política de expiração de uma entrada: uma janela deslizante
// (renovada a cada leitura) limitada por uma janela absoluta (contada a partir
// da escrita). Zero em qualquer campo desativa aquela janela.
type Expiry struct {
	Sliding  time.Duration
	Absolute time.Duration
}

// Client define o contrato de interface para qualquer serviço de cache que o
// Serviço possa usar (get / set-com-expiração / remove), seguindo o Princípio
// da Inversão de Dependência. GetInt e Incr servem contadores (rate limiting);
// o expiry do Incr vale apenas na criação do contador, nunca o estende.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiry Expiry) error
	Delete(ctx context.Context, keys ...string) error
	GetInt(ctx context.Context, key string) (int, error)
	Incr(ctx context.Context, key string, expiry Expiry) error
}
