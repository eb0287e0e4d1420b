package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const writeTimeout = 5 * time.Second

var ErrIncompleteEmail = errors.New("email message needs recipient and template")

// publisher пишет JSON-сообщения в один топик
type publisher struct {
	topic  string
	writer *kafka.Writer
}

func newPublisher(brokers []string, topic string) publisher {
	return publisher{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p publisher) publish(ctx context.Context, key string, payload any, headers ...kafka.Header) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", p.topic, err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value, Headers: headers}); err != nil {
		return fmt.Errorf("write to %s: %w", p.topic, err)
	}
	return nil
}

func (p publisher) Close() error {
	return p.writer.Close()
}

// EmailMessage читает cmd/notifier; Template это имя пары файлов в TMPL_DIR
type EmailMessage struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

type EmailProducer struct {
	publisher
}

func NewEmailProducer(brokers []string, topic string) *EmailProducer {
	return &EmailProducer{publisher: newPublisher(brokers, topic)}
}

// SendEmail ставит письмо в очередь. Пустой key заменяется адресом получателя,
// так письма одному адресату попадают в одну партицию.
func (p *EmailProducer) SendEmail(ctx context.Context, key string, msg EmailMessage) error {
	if msg.To == "" || msg.Template == "" {
		return ErrIncompleteEmail
	}
	if key == "" {
		key = msg.To
	}
	return p.publish(ctx, key, msg)
}
