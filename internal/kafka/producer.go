package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// TicketEventProducer — интерфейс для отправки событий тикета в Kafka (для
// подмены моком в тестах).
type TicketEventProducer interface {
	ProduceTicketEvent(ctx context.Context, event string, payload map[string]interface{})
}

// Producer пишет события тикетов в топик Kafka (best-effort, не блокирует
// API и синхронизацию).
type Producer struct {
	writer *kafka.Writer
	topic  string
	log    *zap.Logger
}

// NewProducer создаёт продюсер. Если brokers или topic пустые — методы no-op.
func NewProducer(brokers []string, topic string, log *zap.Logger) *Producer {
	if log == nil {
		log = zap.NewNop()
	}
	if len(brokers) == 0 || topic == "" {
		return &Producer{log: log}
	}
	return &Producer{
		topic: topic,
		log:   log,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// ProduceTicketEvent отправляет событие (ticket.created / ticket.updated /
// ticket.deleted / ticket.synced) с полезной нагрузкой в топик.
func (p *Producer) ProduceTicketEvent(ctx context.Context, event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	msg := map[string]interface{}{"event": event}
	for k, v := range payload {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	if err != nil {
		p.log.Warn("kafka: marshal ticket event", zap.Error(err))
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		p.log.Warn("kafka: write ticket event", zap.String("event", event), zap.Error(err))
	}
}

// Close закрывает writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// ParseBrokers разбивает строку брокеров "host1:9092,host2:9092" на слайс.
func ParseBrokers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
