package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"shop-service/internal/producer"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	timeout = 2 * time.Second
	tick    = 10 * time.Millisecond
)

type MockSender struct {
	mu   sync.Mutex
	sent []producer.EmailMessage
	err  error
}

func (m *MockSender) SendEmail(n producer.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, n)
	return nil
}

// chanReader отдаёт сообщения из канала, после его закрытия ждёт отмены контекста
type chanReader struct {
	msgs   chan kafka.Message
	errs   chan error
	closed bool
}

func (r *chanReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case err := <-r.errs:
		return kafka.Message{}, err
	default:
	}
	select {
	case m, ok := <-r.msgs:
		if ok {
			return m, nil
		}
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *chanReader) Close() error {
	r.closed = true
	return nil
}

func encode(t *testing.T, m producer.EmailMessage) kafka.Message {
	t.Helper()
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return kafka.Message{Value: b}
}

func TestHandle(t *testing.T) {
	snd := &MockSender{}
	c := &KafkaEmailConsumer{sender: snd, log: zap.NewNop()}

	c.handle(kafka.Message{Value: []byte("{not json")})
	c.handle(encode(t, producer.EmailMessage{To: "", Template: "otp_code"}))
	c.handle(encode(t, producer.EmailMessage{To: "a@b.c", Template: ""}))
	assert.Empty(t, snd.sent)

	c.handle(encode(t, producer.EmailMessage{
		To:       "a@b.c",
		Subject:  "Код подтверждения",
		Template: "otp_code",
		Data:     map[string]any{"code": "123456"},
	}))
	require.Len(t, snd.sent, 1)
	assert.Equal(t, "otp_code", snd.sent[0].Template)
	assert.Equal(t, "123456", snd.sent[0].Data["code"])
}

func TestHandle_SendErrorIsSwallowed(t *testing.T) {
	snd := &MockSender{err: errors.New("smtp down")}
	c := &KafkaEmailConsumer{sender: snd, log: zap.NewNop()}

	assert.NotPanics(t, func() {
		c.handle(encode(t, producer.EmailMessage{To: "a@b.c", Template: "order_status"}))
	})
	assert.Empty(t, snd.sent)
}

func TestRun_StopsOnCancel(t *testing.T) {
	r := &chanReader{msgs: make(chan kafka.Message, 3), errs: make(chan error, 1)}
	snd := &MockSender{}
	c := &KafkaEmailConsumer{reader: r, sender: snd, log: zap.NewNop()}

	r.errs <- errors.New("broker unavailable")
	r.msgs <- encode(t, producer.EmailMessage{To: "a@b.c", Template: "order_confirmation"})
	r.msgs <- kafka.Message{Value: []byte("garbage")}
	r.msgs <- encode(t, producer.EmailMessage{To: "d@e.f", Template: "order_status"})
	close(r.msgs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool {
		snd.mu.Lock()
		defer snd.mu.Unlock()
		return len(snd.sent) == 2
	}, timeout, tick)

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, c.Close())
	assert.True(t, r.closed)
}
