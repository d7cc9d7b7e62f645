package routes

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"voxchat/voxchat/controllers"
	"voxchat/voxchat/middlewares"
	"voxchat/voxchat/types"
	"voxchat/voxchat/utils/errs"
	"voxchat/voxchat/utils/logging"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const socketAuthTimeout = 10 * time.Second

func ChatRoutes(r chi.Router, ctrl *controllers.ChatController, verifier middlewares.TokenVerifier) {
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(verifier))

		gr.Post("/chat", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserIDFrom(r.Context())
			var req types.ChatRequest
			if err := decodeJSON(r, &req); err != nil {
				return nil, 0, err
			}
			resp, err := ctrl.Chat(r.Context(), userID, req.Prompt)
			if err != nil {
				return nil, 0, err
			}
			return types.ChatResponse{Response: resp}, http.StatusOK, nil
		}))

		gr.Get("/messages", handleJSON(func(r *http.Request) (any, int, error) {
			userID, _ := middlewares.UserIDFrom(r.Context())
			msgs, err := ctrl.ListMessages(r.Context(), userID)
			if err != nil {
				return nil, 0, err
			}
			return types.MessagesResponse{Messages: msgs}, http.StatusOK, nil
		}))
	})
}

// ChatSocketHandler serves the websocket variant of /chat. Browsers cannot
// set headers on a websocket handshake, so the first frame carries the
// token; every later frame is one prompt answered by one reply.
func ChatSocketHandler(ctrl *controllers.ChatController, verifier middlewares.TokenVerifier, allowedOrigin string) http.HandlerFunc {
	opts := &websocket.AcceptOptions{}
	if u, err := url.Parse(allowedOrigin); err == nil && u.Host != "" {
		opts.OriginPatterns = []string{u.Host}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, opts)
		if err != nil {
			logging.ErrorLogger.Error("websocket accept error", zap.Error(err))
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()
		userID, err := authenticateSocket(ctx, conn, verifier)
		if err != nil {
			wsjson.Write(ctx, conn, types.SocketReply{Error: errs.Message(err)})
			conn.Close(websocket.StatusPolicyViolation, errs.Message(err))
			return
		}

		for {
			var req types.ChatRequest
			if err := wsjson.Read(ctx, conn, &req); err != nil {
				if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
					logging.AppLogger.Info("chat socket closed", zap.Error(err))
				}
				return
			}
			reply := types.SocketReply{}
			resp, err := ctrl.Chat(ctx, userID, req.Prompt)
			if err != nil {
				reply.Error = errs.Message(err)
			} else {
				reply.Response = resp
			}
			if err := wsjson.Write(ctx, conn, reply); err != nil {
				return
			}
		}
	}
}

func authenticateSocket(ctx context.Context, conn *websocket.Conn, verifier middlewares.TokenVerifier) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, socketAuthTimeout)
	defer cancel()

	var auth types.SocketAuth
	if err := wsjson.Read(ctx, conn, &auth); err != nil || auth.Token == "" {
		return uuid.Nil, errs.ErrAuth
	}
	userID, err := verifier.Verify(auth.Token)
	if err != nil {
		return uuid.Nil, errs.ErrInvalidToken
	}
	return userID, nil
}
