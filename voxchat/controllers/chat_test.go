package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"voxchat/voxchat/sources/psql/dao"
	"voxchat/voxchat/sources/psql/models"
	"voxchat/voxchat/utils/errs"
	httputils "voxchat/voxchat/utils/http"
	"voxchat/voxchat/utils/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupChat(t *testing.T, gen *fakeGenerator) (*ChatController, *dao.MessageDAO) {
	t.Helper()
	messages := dao.NewMessageDAO(testutil.NewDB(t))
	c := NewChatController(messages, gen, time.Second)
	c.retryDelay = 0
	return c, messages
}

func TestChatController_Turns(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{}
	chat, _ := setupChat(t, gen)
	user := uuid.New()

	const turns = 4
	prompts := []string{"hello", "how are you", "tell me a joke", "bye"}
	for i := 0; i < turns; i++ {
		got, err := chat.Chat(ctx, user, prompts[i])
		require.NoError(t, err)
		assert.Equal(t, "echo: "+prompts[i], got)
	}

	history, err := chat.ListMessages(ctx, user)
	require.NoError(t, err)
	require.Len(t, history, 2*turns)
	for i, m := range history {
		if i%2 == 0 {
			assert.Equal(t, models.RoleUser, m.Role)
			assert.Equal(t, prompts[i/2], m.Content)
		} else {
			assert.Equal(t, models.RoleAssistant, m.Role)
			assert.Equal(t, "echo: "+prompts[i/2], m.Content)
		}
		if i > 0 {
			prev := history[i-1]
			assert.False(t, m.Timestamp.Before(prev.Timestamp))
			assert.Greater(t, m.ID, prev.ID)
		}
	}
}

func TestChatController_EmptyPrompt(t *testing.T) {
	gen := &fakeGenerator{}
	chat, _ := setupChat(t, gen)
	user := uuid.New()

	_, err := chat.Chat(context.Background(), user, "  \n\t")
	require.ErrorIs(t, err, errs.ErrValidation)
	assert.Equal(t, 0, gen.calls)

	history, err := chat.ListMessages(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChatController_RetriesTransientOnce(t *testing.T) {
	gen := &fakeGenerator{errs: []error{&httputils.StatusError{Code: http.StatusServiceUnavailable}}}
	chat, _ := setupChat(t, gen)

	got, err := chat.Chat(context.Background(), uuid.New(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", got)
	assert.Equal(t, 2, gen.calls)
}

func TestChatController_GenerationFailureKeepsPrompt(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		wantCalls int
	}{
		{"permanent", []error{&httputils.StatusError{Code: http.StatusBadRequest}}, 1},
		{"opaque", []error{errUpstream}, 1},
		{"transient twice", []error{
			&httputils.StatusError{Code: http.StatusTooManyRequests},
			&httputils.StatusError{Code: http.StatusBadGateway},
		}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{errs: tt.errs}
			chat, _ := setupChat(t, gen)
			user := uuid.New()

			_, err := chat.Chat(context.Background(), user, "hello")
			require.ErrorIs(t, err, errs.ErrGeneration)
			assert.Equal(t, tt.wantCalls, gen.calls)

			history, err := chat.ListMessages(context.Background(), user)
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.Equal(t, models.RoleUser, history[0].Role)
			assert.Equal(t, "hello", history[0].Content)
		})
	}
}

func TestChatController_IsolatesUsers(t *testing.T) {
	ctx := context.Background()
	chat, _ := setupChat(t, &fakeGenerator{})
	alice, bob := uuid.New(), uuid.New()

	_, err := chat.Chat(ctx, alice, "from alice")
	require.NoError(t, err)
	_, err = chat.Chat(ctx, bob, "from bob")
	require.NoError(t, err)

	history, err := chat.ListMessages(ctx, alice)
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, m := range history {
		assert.Equal(t, alice, m.UserID)
		assert.NotContains(t, m.Content, "bob")
	}
}

func TestChatController_StorageFailure(t *testing.T) {
	db := testutil.NewDB(t)
	gen := &fakeGenerator{}
	chat := NewChatController(dao.NewMessageDAO(db), gen, time.Second)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = chat.Chat(context.Background(), uuid.New(), "hello")
	require.ErrorIs(t, err, errs.ErrStorage)
	assert.Equal(t, 0, gen.calls)
}

func TestChatController_TimeoutIsTransient(t *testing.T) {
	gen := &fakeGenerator{errs: []error{context.DeadlineExceeded}}
	chat, _ := setupChat(t, gen)

	_, err := chat.Chat(context.Background(), uuid.New(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls)
}
