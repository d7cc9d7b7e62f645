// Package speech proxies audio to a cloud speech-to-text service and text
// to a text-to-speech service.
package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	httputils "voxchat/voxchat/utils/http"
	"voxchat/voxchat/utils/logging"

	"github.com/go-resty/resty/v2"
)

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Recordings are expected as 16 kHz LINEAR16 English speech; clips come
// back as MP3 in a neutral English voice.
const (
	AudioEncoding   = "LINEAR16"
	SampleRateHertz = 16000
	LanguageCode    = "en-US"
	VoiceGender     = "NEUTRAL"
	OutputEncoding  = "MP3"
)

// GoogleClient implements Transcriber and Synthesizer against the Google
// Cloud Speech-to-Text and Text-to-Speech REST APIs using an API key.
type GoogleClient struct {
	stt    *resty.Client
	tts    *resty.Client
	apiKey string
}

func NewGoogleClient(sttBaseURL, ttsBaseURL, apiKey string, timeout time.Duration) *GoogleClient {
	return &GoogleClient{
		stt:    httputils.NewClient(sttBaseURL, timeout),
		tts:    httputils.NewClient(ttsBaseURL, timeout),
		apiKey: apiKey,
	}
}

type recognizeRequest struct {
	Config struct {
		Encoding        string `json:"encoding"`
		SampleRateHertz int    `json:"sampleRateHertz"`
		LanguageCode    string `json:"languageCode"`
	} `json:"config"`
	Audio struct {
		Content string `json:"content"`
	} `json:"audio"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

func (c *GoogleClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	defer logging.LogDuration(ctx, "speech_transcribe")()

	if len(audio) == 0 {
		return "", fmt.Errorf("empty audio")
	}
	var req recognizeRequest
	req.Config.Encoding = AudioEncoding
	req.Config.SampleRateHertz = SampleRateHertz
	req.Config.LanguageCode = LanguageCode
	req.Audio.Content = base64.StdEncoding.EncodeToString(audio)

	var resp recognizeResponse
	if err := httputils.PostJSON(ctx, c.stt, "/speech:recognize", c.keyHeader(), req, &resp); err != nil {
		return "", fmt.Errorf("recognize request failed: %w", err)
	}

	lines := make([]string, 0, len(resp.Results))
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		lines = append(lines, result.Alternatives[0].Transcript)
	}
	return strings.Join(lines, "\n"), nil
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		SSMLGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

func (c *GoogleClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	defer logging.LogDuration(ctx, "speech_synthesize")()

	var req synthesizeRequest
	req.Input.Text = text
	req.Voice.LanguageCode = LanguageCode
	req.Voice.SSMLGender = VoiceGender
	req.AudioConfig.AudioEncoding = OutputEncoding

	var resp synthesizeResponse
	if err := httputils.PostJSON(ctx, c.tts, "/text:synthesize", c.keyHeader(), req, &resp); err != nil {
		return nil, fmt.Errorf("synthesize request failed: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio content: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio content")
	}
	return audio, nil
}

func (c *GoogleClient) keyHeader() map[string]string {
	return map[string]string{"x-goog-api-key": c.apiKey}
}
