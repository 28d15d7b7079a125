package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// memoryEntry é uma entrada do cache local com as duas janelas de expiração.
type memoryEntry struct {
	value            string
	deadline         time.Time // próxima expiração efetiva
	absoluteDeadline time.Time // teto que a janela deslizante não pode ultrapassar
	sliding          time.Duration
}

// janitorInterval define a frequência da varredura de entradas expiradas.
const janitorInterval = time.Minute

// MemoryClient é a implementação local (em processo) da interface Client.
// Entradas expiradas são removidas de forma preguiçosa na leitura; uma
// goroutine de varredura recolhe as que nunca mais seriam lidas.
type MemoryClient struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time // injetável nos testes
	stop    chan struct{}
}

// NewMemoryClient cria e retorna uma nova instância do cache em memória.
func NewMemoryClient() *MemoryClient {
	c := &MemoryClient{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go c.janitor()
	return c
}

// janitor varre o mapa periodicamente até o Close.
func (c *MemoryClient) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep descarta todas as entradas já expiradas.
func (c *MemoryClient) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if c.expired(entry, now) {
			delete(c.entries, key)
		}
	}
}

// Close encerra a goroutine de varredura.
func (c *MemoryClient) Close() {
	close(c.stop)
}

// Get recupera o valor associado a uma chave, renovando a janela deslizante.
func (c *MemoryClient) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", ErrCacheMiss
	}

	now := c.now()
	if c.expired(entry, now) {
		delete(c.entries, key)
		return "", ErrCacheMiss
	}

	if entry.sliding > 0 {
		entry.deadline = c.slide(entry, now)
		c.entries[key] = entry
	}

	return entry.value, nil
}

// expired verifica as duas janelas de expiração da entrada.
func (c *MemoryClient) expired(entry memoryEntry, now time.Time) bool {
	if !entry.deadline.IsZero() && now.After(entry.deadline) {
		return true
	}
	if !entry.absoluteDeadline.IsZero() && now.After(entry.absoluteDeadline) {
		return true
	}
	return false
}

// slide calcula a próxima expiração deslizante, limitada ao prazo absoluto.
func (c *MemoryClient) slide(entry memoryEntry, now time.Time) time.Time {
	next := now.Add(entry.sliding)
	if !entry.absoluteDeadline.IsZero() && next.After(entry.absoluteDeadline) {
		return entry.absoluteDeadline
	}
	return next
}

// Set define um valor para uma chave com a política de expiração informada.
func (c *MemoryClient) Set(ctx context.Context, key string, value interface{}, expiry Expiry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entry := memoryEntry{
		value:   stringify(value),
		sliding: expiry.Sliding,
	}
	if expiry.Absolute > 0 {
		entry.absoluteDeadline = now.Add(expiry.Absolute)
	}
	if expiry.Sliding > 0 {
		entry.deadline = c.slide(entry, now)
	} else {
		entry.deadline = entry.absoluteDeadline
	}

	c.entries[key] = entry
	return nil
}

// Delete remove uma ou mais chaves do cache.
func (c *MemoryClient) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

// GetInt recupera um valor inteiro (contadores de rate limiting).
func (c *MemoryClient) GetInt(ctx context.Context, key string) (int, error) {
	val, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

// Incr incrementa o contador associado à chave. Um contador inexistente (ou
// já expirado) é recriado valendo 1 com a janela absoluta informada; um
// contador vivo preserva a janela definida na sua criação.
func (c *MemoryClient) Incr(ctx context.Context, key string, expiry Expiry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entry, ok := c.entries[key]
	if !ok || c.expired(entry, now) {
		entry = memoryEntry{value: "1"}
		if expiry.Absolute > 0 {
			entry.absoluteDeadline = now.Add(expiry.Absolute)
			entry.deadline = entry.absoluteDeadline
		}
		c.entries[key] = entry
		return nil
	}

	count, err := strconv.Atoi(entry.value)
	if err != nil {
		return fmt.Errorf("cache: valor de %q não é um contador: %w", key, err)
	}

	entry.value = strconv.Itoa(count + 1)
	c.entries[key] = entry
	return nil
}

// stringify normaliza o valor armazenado, espelhando o comportamento do Redis
// para os tipos que o serviço realmente grava (JSON em []byte e contadores).
func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
