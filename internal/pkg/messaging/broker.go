package messaging

import (
	"context"
)

// ProductsTopic é o tópico onde produtos recém-criados são publicados.
const ProductsTopic = "products"

// Publisher define o contrato de publicação fire-and-forget: o chamador não
// espera confirmação de entrega e uma falha de publicação não reverte a
// escrita que a precedeu.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// Consumer define o contrato de consumo de um tópico. O handler é invocado
// para cada mensagem recebida; a entrega é no máximo uma vez (best-effort).
type Consumer interface {
	Consume(ctx context.Context, topic string, handler func(payload []byte)) error
}

// Broker agrupa os dois lados do contrato de mensageria.
type Broker interface {
	Publisher
	Consumer
}
