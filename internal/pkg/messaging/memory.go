package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// ErrQueueFull é retornado quando a fila em memória do tópico está cheia.
// Como a publicação é fire-and-forget, o chamador apenas registra o descarte.
var ErrQueueFull = errors.New("messaging: fila do tópico cheia, mensagem descartada")

const defaultQueueSize = 128

// MemoryBroker é um broker em processo baseado em canais: uma fila limitada
// por tópico, entrega no máximo uma vez, sem durabilidade.
type MemoryBroker struct {
	mu     sync.Mutex
	topics map[string]chan []byte
}

// NewMemoryBroker cria e retorna um novo broker em memória.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		topics: make(map[string]chan []byte),
	}
}

func (b *MemoryBroker) queue(topic string) chan []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.topics[topic]
	if !ok {
		ch = make(chan []byte, defaultQueueSize)
		b.topics[topic] = ch
	}
	return ch
}

// Publish serializa o payload como JSON e o enfileira sem bloquear.
// Fila cheia resulta em descarte (ErrQueueFull).
func (b *MemoryBroker) Publish(ctx context.Context, topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	select {
	case b.queue(topic) <- data:
		return nil
	default:
		return ErrQueueFull
	}
}

// Consume drena a fila do tópico em uma goroutine até o contexto ser cancelado.
func (b *MemoryBroker) Consume(ctx context.Context, topic string, handler func(payload []byte)) error {
	ch := b.queue(topic)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-ch:
				handler(msg)
			}
		}
	}()

	return nil
}
