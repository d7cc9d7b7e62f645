package routes

import (
	"net/http"

	"voxchat/voxchat/controllers"
	"voxchat/voxchat/types"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(r chi.Router, ctrl *controllers.AuthController) {
	r.Post("/register", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, 0, err
		}
		token, err := ctrl.Register(r.Context(), req)
		if err != nil {
			return nil, 0, err
		}
		return types.TokenResponse{Token: token}, http.StatusOK, nil
	}))
	r.Post("/login", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, 0, err
		}
		token, err := ctrl.Login(r.Context(), req)
		if err != nil {
			return nil, 0, err
		}
		return types.TokenResponse{Token: token}, http.StatusOK, nil
	}))
}
