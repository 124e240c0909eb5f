package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"payments-api/internal/core/domain"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func sampleNotification() domain.Notification {
	return domain.Notification{
		Key:     "3f1c9a2e-0000-4000-8000-000000000001",
		Kind:    domain.KindPaymentProcessed,
		Address: "alice@example.com",
		Subject: "Your payment result",
		Body:    "Status: APPROVED",
	}
}

type fakeSender struct {
	DialAndSendFunc func(m ...*gomail.Message) error
	messages        []*gomail.Message
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.messages = append(f.messages, m...)
	if f.DialAndSendFunc != nil {
		return f.DialAndSendFunc(m...)
	}
	return nil
}

func TestMailNotifier(t *testing.T) {
	sender := &fakeSender{}
	n := &MailNotifier{sender: sender, from: "no-reply@example.com"}

	require.NoError(t, n.Notify(context.Background(), sampleNotification()))
	require.Len(t, sender.messages, 1)

	m := sender.messages[0]
	assert.Equal(t, []string{"alice@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"no-reply@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"Your payment result"}, m.GetHeader("Subject"))
}

func TestMailNotifierErrors(t *testing.T) {
	sender := &fakeSender{DialAndSendFunc: func(...*gomail.Message) error {
		return errors.New("dial tcp: connection refused")
	}}
	n := &MailNotifier{sender: sender, from: "no-reply@example.com"}

	err := n.Notify(context.Background(), sampleNotification())
	assert.ErrorContains(t, err, "connection refused")

	msg := sampleNotification()
	msg.Address = ""
	assert.Error(t, n.Notify(context.Background(), msg))
}

func TestKafkaNotifierPublishes(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event notificationEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.Kind != string(domain.KindPaymentProcessed) || event.Recipient != "alice@example.com" {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	n := NewKafkaNotifier(producer, "payment.notifications")
	require.NoError(t, n.Notify(context.Background(), sampleNotification()))
	require.NoError(t, n.Close())
}

func TestKafkaNotifierFailure(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	n := NewKafkaNotifier(producer, "payment.notifications")
	err := n.Notify(context.Background(), sampleNotification())
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, n.Close())
}

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) Notify(context.Context, domain.Notification) error {
	s.calls++
	return s.err
}

func TestMultiDeliversToAll(t *testing.T) {
	failing := &stubNotifier{err: errors.New("smtp down")}
	ok := &stubNotifier{}

	err := Multi{failing, ok, LogNotifier{}}.Notify(context.Background(), sampleNotification())
	assert.ErrorContains(t, err, "smtp down")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)

	assert.NoError(t, Multi{ok}.Notify(context.Background(), sampleNotification()))
}
