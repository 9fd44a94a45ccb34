package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/rhydle-waitlist/internal/infra/metrics"
	"github.com/xavierca1/rhydle-waitlist/internal/usecase"
)

var (
	errMalformed      = errors.New("malformed sweep request")
	ErrConsumerClosed = errors.New("canal de consumo fechado pelo broker")
)

type Worker struct {
	Channel *amqp.Channel
	Sweeper usecase.SweepService
	Logger  *zap.Logger
}

func NewWorker(ch *amqp.Channel, sweeper usecase.SweepService, logger *zap.Logger) *Worker {
	return &Worker{
		Channel: ch,
		Sweeper: sweeper,
		Logger:  logger,
	}
}

// Start consome a fila até o ctx ser cancelado. Se o broker fechar o canal
// antes disso, retorna ErrConsumerClosed.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	if err := w.Channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("falha ao configurar prefetch: %w", err)
	}

	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName, // fila
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Logger.Info("[*] worker aguardando na fila", zap.String("queue", queueName))
	return w.consume(ctx, msgs)
}

func (w *Worker) consume(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrConsumerClosed
			}
			w.handle(ctx, d)
		}
	}
}

// handle confirma o pedido antes de rodar o sweep. O sweep é idempotente
// (só pega Beta = No) e pode durar mais que o consumer_timeout do broker.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	payload, err := decodeRequest(d.Body)
	if err != nil {
		w.Logger.Error("❌ [WORKER] JSON inválido", zap.Error(err))
		// Sem requeue: mensagem vai pra DLQ
		if err := d.Nack(false, false); err != nil {
			w.Logger.Error("falha no nack", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(err))
		}
		return
	}

	if err := d.Ack(false); err != nil {
		w.Logger.Error("falha no ack", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(err))
		return
	}

	w.run(ctx, payload)
}

func decodeRequest(body []byte) (SweepRequestPayload, error) {
	var payload SweepRequestPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return payload, nil
}

func (w *Worker) run(ctx context.Context, payload SweepRequestPayload) error {
	log := w.Logger.With(zap.String("request_id", payload.RequestID), zap.String("origin", payload.Origin))
	log.Info("📥 [WORKER] pedido de sweep recebido")

	result, err := w.Sweeper.Execute(ctx)
	if errors.Is(err, usecase.ErrSweepInProgress) {
		// outro sweep já está cobrindo as mesmas linhas
		log.Info("sweep já em andamento, pedido descartado")
		metrics.RecordSweep("skipped", 0, 0)
		return nil
	}
	if err != nil {
		log.Error("❌ [WORKER] sweep falhou", zap.Error(err))
		metrics.RecordSweep("error", 0, 0)
		return err
	}

	metrics.RecordSweep("completed", result.Sent, len(result.Failed))
	log.Info("✅ [WORKER] sweep concluído",
		zap.Int("attempted", result.Attempted),
		zap.Int("sent", result.Sent),
		zap.Int("failed", len(result.Failed)),
	)
	return nil
}
