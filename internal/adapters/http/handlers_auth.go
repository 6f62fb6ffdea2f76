package http

import (
	"net/http"

	"github.com/manan0901/Vibecoder-sub002/internal/application"
	"github.com/manan0901/Vibecoder-sub002/internal/contracts"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req contracts.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.service.Register(r.Context(), application.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "account created", user)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req contracts.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "login successful", contracts.LoginResponse{
		Token:     out.Token,
		UserID:    out.User.UserID,
		Role:      string(out.User.Role),
		ExpiresAt: out.Claims.ExpiresAt,
	})
}
