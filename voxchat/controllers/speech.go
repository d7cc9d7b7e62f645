package controllers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"voxchat/voxchat/services/speech"
	"voxchat/voxchat/sources/storage"
	"voxchat/voxchat/utils/errs"
	"voxchat/voxchat/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const archiveTimeout = 5 * time.Second

type SpeechController struct {
	transcriber speech.Transcriber
	synthesizer speech.Synthesizer
	archive     storage.AudioArchive
	timeout     time.Duration
}

// NewSpeechController wires the speech providers. archive may be nil.
func NewSpeechController(transcriber speech.Transcriber, synthesizer speech.Synthesizer, archive storage.AudioArchive, timeout time.Duration) *SpeechController {
	return &SpeechController{
		transcriber: transcriber,
		synthesizer: synthesizer,
		archive:     archive,
		timeout:     timeout,
	}
}

func (c *SpeechController) Transcribe(ctx context.Context, userID uuid.UUID, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio", errs.ErrTranscription)
	}
	callCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	text, err := c.transcriber.Transcribe(callCtx, audio)
	if err != nil {
		logging.ErrorLogger.Error("transcription failed",
			zap.String("user_id", userID.String()), zap.Error(err))
		return "", fmt.Errorf("%w: %v", errs.ErrTranscription, err)
	}
	c.store(ctx, userID, storage.KindRecording, audio, map[string]string{
		"transcript-chars": strconv.Itoa(len(text)),
	})
	return text, nil
}

func (c *SpeechController) Synthesize(ctx context.Context, userID uuid.UUID, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is empty", errs.ErrValidation)
	}
	callCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	audio, err := c.synthesizer.Synthesize(callCtx, text)
	if err != nil {
		logging.ErrorLogger.Error("synthesis failed",
			zap.String("user_id", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", errs.ErrSynthesis, err)
	}
	c.store(ctx, userID, storage.KindSynthesis, audio, map[string]string{
		"text-chars": strconv.Itoa(len(text)),
	})
	return audio, nil
}

func (c *SpeechController) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// store copies audio to the archive; failures are logged only.
func (c *SpeechController) store(ctx context.Context, userID uuid.UUID, kind string, audio []byte, meta map[string]string) {
	if c.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()
	key, err := c.archive.StoreAudio(ctx, userID, kind, audio, meta)
	if err != nil {
		logging.ErrorLogger.Error("audio archive failed",
			zap.String("user_id", userID.String()), zap.String("kind", kind), zap.Error(err))
		return
	}
	logging.AppLogger.Info("audio archived", zap.String("key", key), zap.Int("bytes", len(audio)))
}
