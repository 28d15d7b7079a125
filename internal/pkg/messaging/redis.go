package messaging

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
)

// RedisBroker implementa Publisher/Consumer sobre o pub/sub do Redis.
// O pub/sub do Redis não persiste mensagens: assinantes ausentes perdem
// publicações, o que preserva a semântica fire-and-forget do contrato.
type RedisBroker struct {
	rdb *redis.Client
}

// NewRedisBroker cria e retorna um broker sobre o Redis informado.
func NewRedisBroker(addr string) *RedisBroker {
	return &RedisBroker{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Publish serializa o payload como JSON e o publica no canal do tópico.
func (b *RedisBroker) Publish(ctx context.Context, topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, topic, data).Err()
}

// Consume assina o canal do tópico e entrega cada mensagem ao handler em uma
// goroutine até o contexto ser cancelado.
func (b *RedisBroker) Consume(ctx context.Context, topic string, handler func(payload []byte)) error {
	sub := b.rdb.Subscribe(ctx, topic)

	// Confirma a assinatura antes de retornar, para não perder publicações
	// feitas logo após a chamada.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler([]byte(msg.Payload))
			}
		}
	}()

	return nil
}
