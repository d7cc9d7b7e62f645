package controllers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"voxchat/voxchat/services/llm"
	"voxchat/voxchat/sources/psql/models"
	"voxchat/voxchat/utils/errs"
	httputils "voxchat/voxchat/utils/http"
	"voxchat/voxchat/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MessageLog interface {
	SaveMessage(ctx context.Context, userID uuid.UUID, role, content string) (*models.Message, error)
	GetMessagesByUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error)
}

type ChatController struct {
	messages   MessageLog
	generator  llm.Generator
	timeout    time.Duration
	retryDelay time.Duration
}

func NewChatController(messages MessageLog, generator llm.Generator, timeout time.Duration) *ChatController {
	return &ChatController{
		messages:   messages,
		generator:  generator,
		timeout:    timeout,
		retryDelay: 500 * time.Millisecond,
	}
}

// Chat runs one turn: the prompt is recorded, the model is asked, and the
// reply is recorded and returned. When generation fails the prompt stays
// in the history.
func (c *ChatController) Chat(ctx context.Context, userID uuid.UUID, prompt string) (string, error) {
	defer logging.LogDuration(ctx, "chat_turn")()

	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is empty", errs.ErrValidation)
	}
	if _, err := c.messages.SaveMessage(ctx, userID, models.RoleUser, prompt); err != nil {
		return "", err
	}

	response, err := c.generate(ctx, prompt)
	if err != nil {
		logging.ErrorLogger.Error("generation failed",
			zap.String("user_id", userID.String()), zap.Error(err))
		return "", fmt.Errorf("%w: %v", errs.ErrGeneration, err)
	}

	if _, err := c.messages.SaveMessage(ctx, userID, models.RoleAssistant, response); err != nil {
		return "", err
	}
	return response, nil
}

func (c *ChatController) ListMessages(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	return c.messages.GetMessagesByUser(ctx, userID)
}

// generate calls the model with a bounded timeout, retrying once on a
// transient failure.
func (c *ChatController) generate(ctx context.Context, prompt string) (string, error) {
	response, err := c.generateOnce(ctx, prompt)
	if err == nil || !httputils.IsTransient(err) || ctx.Err() != nil {
		return response, err
	}

	logging.AppLogger.Warn("retrying generation after transient error", zap.Error(err))
	select {
	case <-time.After(c.retryDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return c.generateOnce(ctx, prompt)
}

func (c *ChatController) generateOnce(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.generator.Generate(ctx, prompt)
}
