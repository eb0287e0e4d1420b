package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shop-service/internal/producer"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Sender interface {
	SendEmail(n producer.EmailMessage) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type KafkaEmailConsumer struct {
	reader messageReader
	sender Sender
	log    *zap.Logger
}

func NewKafkaEmailConsumer(brokers []string, groupID, topic string, sender Sender, log *zap.Logger) *KafkaEmailConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          10e3,
		MaxBytes:          10e6,
		CommitInterval:    time.Second,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return &KafkaEmailConsumer{reader: r, sender: sender, log: log}
}

// Run читает топик до отмены контекста. Битые сообщения и ошибки SMTP
// логируются и пропускаются, offset всё равно коммитится.
func (c *KafkaEmailConsumer) Run(ctx context.Context) error {
	c.log.Info("Kafka consumer запущен")
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			c.log.Error("Ошибка чтения сообщения", zap.Error(err))
			continue
		}
		c.handle(m)
	}
}

func (c *KafkaEmailConsumer) handle(m kafka.Message) {
	var em producer.EmailMessage
	if err := json.Unmarshal(m.Value, &em); err != nil {
		c.log.Error("Не удалось разобрать сообщение", zap.ByteString("value", m.Value), zap.Error(err))
		return
	}
	if em.To == "" || em.Template == "" {
		c.log.Warn("Некорректное сообщение", zap.Any("msg", em))
		return
	}
	if err := c.sender.SendEmail(em); err != nil {
		c.log.Error("Не удалось отправить письмо",
			zap.String("to", em.To),
			zap.String("template", em.Template),
			zap.Error(err),
		)
		return
	}
	c.log.Info("Письмо отправлено", zap.String("to", em.To), zap.String("template", em.Template))
}

func (c *KafkaEmailConsumer) Close() error { return c.reader.Close() }
