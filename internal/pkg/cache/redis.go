package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient é a implementação distribuída da interface Client, usando Redis.
type RedisClient struct {
	rdb *redis.Client
}

// entryMeta guarda os dados necessários para renovar a janela deslizante de
// uma chave sem ultrapassar o prazo absoluto definido na escrita.
type entryMeta struct {
	AbsoluteDeadline int64 `json:"absoluteDeadline"` // unix nano
	SlidingMillis    int64 `json:"slidingMillis"`
}

// NewRedisClient cria e retorna uma nova instância do cliente Redis.
func NewRedisClient(addr string) (Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr, // Endereço do Redis (e.g., "localhost:6379")
	})

	// PING para garantir que o cache está disponível antes de servir tráfego.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return &RedisClient{rdb: rdb}, nil
}

// Get recupera o valor associado a uma chave e, havendo janela deslizante,
// renova o TTL sem ultrapassar o prazo absoluto da entrada.
func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}

	c.touch(ctx, key)
	return val, nil
}

// touch estende o TTL da chave pela janela deslizante, limitado ao prazo absoluto.
func (c *RedisClient) touch(ctx context.Context, key string) {
	raw, err := c.rdb.Get(ctx, key+":meta").Result()
	if err != nil {
		return // sem metadados, a expiração original permanece
	}

	var meta entryMeta
	if json.Unmarshal([]byte(raw), &meta) != nil || meta.SlidingMillis <= 0 {
		return
	}

	extension := time.Duration(meta.SlidingMillis) * time.Millisecond
	if meta.AbsoluteDeadline > 0 {
		remaining := time.Until(time.Unix(0, meta.AbsoluteDeadline))
		if remaining <= 0 {
			return
		}
		if remaining < extension {
			extension = remaining
		}
	}

	c.rdb.Expire(ctx, key, extension)
}

// Set define um valor para uma chave com a política de expiração informada.
func (c *RedisClient) Set(ctx context.Context, key string, value interface{}, expiry Expiry) error {
	ttl := expiry.Sliding
	if ttl == 0 || (expiry.Absolute > 0 && expiry.Absolute < ttl) {
		ttl = expiry.Absolute
	}

	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return err
	}

	// Janela deslizante + absoluta: persiste os metadados usados pelo touch.
	if expiry.Sliding > 0 && expiry.Absolute > 0 {
		meta := entryMeta{
			AbsoluteDeadline: time.Now().Add(expiry.Absolute).UnixNano(),
			SlidingMillis:    expiry.Sliding.Milliseconds(),
		}
		raw, err := json.Marshal(meta)
		if err == nil {
			c.rdb.Set(ctx, key+":meta", raw, expiry.Absolute)
		}
	}

	return nil
}

// Delete remove uma ou mais chaves do cache.
func (c *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	all := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		all = append(all, key, key+":meta")
	}
	return c.rdb.Del(ctx, all...).Err()
}

// GetInt recupera um valor inteiro (contadores de rate limiting).
func (c *RedisClient) GetInt(ctx context.Context, key string) (int, error) {
	val, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

// Incr incrementa atomicamente o contador associado à chave. Quando o INCR
// cria a chave (resultado 1), aplica a janela absoluta como TTL; um contador
// existente mantém o TTL definido na criação.
func (c *RedisClient) Incr(ctx context.Context, key string, expiry Expiry) error {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}

	if count == 1 && expiry.Absolute > 0 {
		return c.rdb.Expire(ctx, key, expiry.Absolute).Err()
	}
	return nil
}
