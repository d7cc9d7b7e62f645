package routes

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"voxchat/voxchat/controllers"
	"voxchat/voxchat/middlewares"
	"voxchat/voxchat/types"
	"voxchat/voxchat/utils/errs"

	"github.com/go-chi/chi/v5"
)

const maxAudioBytes = 10 << 20

func SpeechRoutes(r chi.Router, ctrl *controllers.SpeechController, verifier middlewares.TokenVerifier) {
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(verifier))

		gr.Post("/transcribe", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserIDFrom(r.Context())
			audio, err := readAudioField(r)
			if err != nil {
				return nil, 0, err
			}
			text, err := ctrl.Transcribe(r.Context(), userID, audio)
			if err != nil {
				return nil, 0, err
			}
			return types.TranscribeResponse{Text: text}, http.StatusOK, nil
		}))

		gr.Post("/synthesize", func(w http.ResponseWriter, r *http.Request) {
			userID, _ := middlewares.UserIDFrom(r.Context())
			var req types.SynthesizeRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, r, err)
				return
			}
			audio, err := ctrl.Synthesize(r.Context(), userID, req.Text)
			if err != nil {
				writeError(w, r, err)
				return
			}
			w.Header().Set("Content-Type", "audio/mp3")
			w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
			w.WriteHeader(http.StatusOK)
			w.Write(audio)
		})
	})
}

// readAudioField returns the bytes of the multipart "audio" part.
func readAudioField(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxAudioBytes)
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: audio exceeds %d bytes", errs.ErrTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: expected multipart form with an audio field", errs.ErrValidation)
	}
	file, _, err := r.FormFile("audio")
	if err != nil {
		return nil, fmt.Errorf("%w: missing audio field", errs.ErrValidation)
	}
	defer file.Close()
	audio, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable audio field", errs.ErrValidation)
	}
	return audio, nil
}
