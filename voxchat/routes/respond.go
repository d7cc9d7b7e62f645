package routes

import (
	"encoding/json"
	"fmt"
	"net/http"

	"voxchat/voxchat/types"
	"voxchat/voxchat/utils/errs"
	"voxchat/voxchat/utils/logging"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const maxJSONBytes = 1 << 20

// generic wrapper to reduce boilerplate; errors are answered with the
// status errs.Status picks for them.
func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, status, res)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.Status(err)
	if status >= http.StatusInternalServerError {
		logging.ErrorLogger.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	writeJSON(w, status, types.ErrorResponse{Error: errs.Message(err)})
}

func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxJSONBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", errs.ErrValidation)
	}
	return nil
}
