package messaging

import (
	"context"
	"encoding/json"

	"gocatalog/internal/domain"
	"gocatalog/internal/pkg/logger"
)

// ProductConsumerWorker é a tarefa de fundo que drena o tópico de produtos.
// O processamento é apenas demonstrativo (log); não há acoplamento com a
// correção do fluxo de negócio nem garantias de entrega.
type ProductConsumerWorker struct {
	consumer Consumer
	log      logger.Logger
}

// NewProductConsumerWorker cria o worker de consumo de produtos.
func NewProductConsumerWorker(consumer Consumer, log logger.Logger) *ProductConsumerWorker {
	return &ProductConsumerWorker{
		consumer: consumer,
		log:      log,
	}
}

// Start registra o handler no tópico de produtos. O consumo roda em segundo
// plano e é encerrado pelo cancelamento do contexto (graceful shutdown).
func (w *ProductConsumerWorker) Start(ctx context.Context) error {
	w.log.Info("Worker de consumo de produtos iniciado.", map[string]interface{}{"topic": ProductsTopic})

	return w.consumer.Consume(ctx, ProductsTopic, func(payload []byte) {
		var product domain.Product
		if err := json.Unmarshal(payload, &product); err != nil {
			w.log.Warn("Mensagem de produto ilegível descartada.", map[string]interface{}{"error": err.Error()})
			return
		}

		w.log.Info("Produto recebido do tópico.", map[string]interface{}{
			"name":     product.Name,
			"category": product.Category,
		})
	})
}
