package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mariekewagner2302-lang/travelplanner/internal/auth"
	"github.com/mariekewagner2302-lang/travelplanner/internal/observability"
)

// Keep this small interface so tests can fake it easily.
type AuthService interface {
	Signup(ctx context.Context, in auth.SignupInput) (auth.Result, error)
	Login(ctx context.Context, in auth.LoginInput) (auth.Result, error)
	Refresh(ctx context.Context, refreshToken string) (auth.Result, error)
	Logout(ctx context.Context, refreshToken string) error
}

type AuthHandler struct {
	svc  AuthService
	log  *slog.Logger
	prom *observability.Prom
}

func NewAuthHandler(svc AuthService, log *slog.Logger, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{svc: svc, log: log, prom: prom}
}

type SignupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *AuthHandler) Signup(ctx *gin.Context) {
	var req SignupRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)

	defer cancel()

	res, err := h.svc.Signup(cctx, auth.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})

	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			h.prom.CountSignup("conflict")
			RespondBadRequest(ctx, "Email already registered")
			return
		}

		h.prom.CountSignup("error")
		h.log.ErrorContext(cctx, "signup failed", "err", err)
		RespondInternal(ctx)
		return
	}

	h.prom.CountSignup("ok")

	ctx.JSON(http.StatusCreated, gin.H{
		"user":         res.User,
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)

	defer cancel()

	res, err := h.svc.Login(cctx, auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})

	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.prom.CountLogin("unauthorized")
			// same body for unknown email and wrong password
			RespondUnauthorized(ctx, "Invalid email or password")
			return
		}

		h.prom.CountLogin("error")
		h.log.ErrorContext(cctx, "login failed", "err", err)
		RespondInternal(ctx)
		return
	}

	h.prom.CountLogin("ok")

	ctx.JSON(http.StatusOK, gin.H{
		"user":         res.User,
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
	})
}

func (h *AuthHandler) Refresh(ctx *gin.Context) {
	var req RefreshRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)

	defer cancel()

	res, err := h.svc.Refresh(cctx, req.RefreshToken)

	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			h.prom.CountRefresh("unauthorized")
			RespondUnauthorized(ctx, "Invalid refresh token")
			return
		}

		h.prom.CountRefresh("error")
		h.log.ErrorContext(cctx, "refresh failed", "err", err)
		RespondInternal(ctx)
		return
	}

	h.prom.CountRefresh("ok")

	ctx.JSON(http.StatusOK, gin.H{
		"user":         res.User,
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
	})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	var req RefreshRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)

	defer cancel()

	if err := h.svc.Logout(cctx, req.RefreshToken); err != nil {
		h.log.ErrorContext(cctx, "logout failed", "err", err)
		RespondInternal(ctx)
		return
	}

	ctx.Status(http.StatusNoContent)
}
