package chat_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/chat-subscription/internal/lib/apperr"
	"github.com/magabrotheeeer/chat-subscription/internal/metrics"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
	"github.com/magabrotheeeer/chat-subscription/internal/services/chat"
)

type CompleterMock struct {
	mock.Mock
}

func (m *CompleterMock) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

func TestChatService_Chat(t *testing.T) {
	messages := []models.ChatMessage{{Role: "user", Content: "hi"}}

	tests := []struct {
		name    string
		reply   string
		llmErr  error
		want    string
		wantErr bool
	}{
		{name: "success", reply: "hello", want: "hello"},
		{name: "upstream failure", llmErr: errors.New("status 500"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := new(CompleterMock)
			llm.On("Complete", mock.Anything, messages).Return(tt.reply, tt.llmErr).Once()

			svc := chat.NewChatService(llm, metrics.New())
			got, err := svc.Chat(context.Background(), messages)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrUpstream)
				assert.Empty(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			llm.AssertExpectations(t)
		})
	}
}
