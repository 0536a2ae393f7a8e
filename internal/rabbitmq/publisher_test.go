package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chat-subscription/internal/models"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	calls    int
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.calls++
	f.exchange = exchange
	f.key = key
	f.msg = msg
	return f.err
}

func TestNewPublishing(t *testing.T) {
	msg, err := newPublishing(map[string]int{"a": 1})
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)
	assert.NotEmpty(t, msg.MessageId)
	assert.JSONEq(t, `{"a":1}`, string(msg.Body))

	other, err := newPublishing(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.NotEqual(t, msg.MessageId, other.MessageId)
}

func TestNewPublishing_MarshalError(t *testing.T) {
	_, err := newPublishing(make(chan int))
	assert.Error(t, err)
}

func TestPublisher_PublishSubscriptionExtended(t *testing.T) {
	oldExp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	event := models.SubscriptionExtended{
		UserID:            42,
		Email:             "user@example.com",
		Days:              7,
		OldExpirationDate: oldExp,
		NewExpirationDate: oldExp.AddDate(0, 0, 7),
	}

	tests := []struct {
		name      string
		ctx       func() context.Context
		publisher error
		wantErr   bool
		wantCalls int
	}{
		{
			name:      "published",
			ctx:       context.Background,
			wantCalls: 1,
		},
		{
			name:      "channel error",
			ctx:       context.Background,
			publisher: errors.New("channel closed"),
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name: "cancelled context",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr:   true,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &fakeChannel{err: tt.publisher}
			p := NewPublisher(ch, "notifications")

			err := p.PublishSubscriptionExtended(tt.ctx(), event)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, ch.calls)
			if tt.wantCalls == 0 {
				return
			}

			assert.Equal(t, "notifications", ch.exchange)
			assert.Equal(t, RoutingKeySubscriptionExtended, ch.key)

			var got models.SubscriptionExtended
			require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
			assert.Equal(t, event.UserID, got.UserID)
			assert.Equal(t, event.Days, got.Days)
			assert.True(t, event.NewExpirationDate.Equal(got.NewExpirationDate))
		})
	}
}

func TestPublisher_PublishAccessExpiring(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch, "notifications")
	exp := time.Date(2030, 3, 4, 5, 0, 0, 0, time.UTC)

	err := p.PublishAccessExpiring(context.Background(), models.AccessExpiring{UserID: 3, Email: "u@example.com", ExpirationDate: exp})
	require.NoError(t, err)

	assert.Equal(t, 1, ch.calls)
	assert.Equal(t, RoutingKeyAccessExpiring, ch.key)
	var got models.AccessExpiring
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, int64(3), got.UserID)
	assert.True(t, exp.Equal(got.ExpirationDate))
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.PublishSubscriptionExtended(context.Background(), models.SubscriptionExtended{}))
	assert.NoError(t, p.PublishAccessExpiring(context.Background(), models.AccessExpiring{}))
}
