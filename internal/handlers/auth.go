package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/blindys/blindys-backend/internal/auth"
	"github.com/blindys/blindys-backend/internal/events"
)

type AuthHandler struct {
	Service  *auth.Service
	Producer *events.Producer
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrNoRefreshTokens):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrAccountLocked),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, auth.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	result, err := h.Service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrLockoutStarted) {
			h.publish(c, req.Email, map[string]interface{}{
				"type":  "user_locked_out",
				"email": req.Email,
			})
			// The response must not reveal that this failure started the
			// lockout.
			return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		}
		return authError(err)
	}

	h.publish(c, result.ID, map[string]interface{}{
		"type":   "user_logged_in",
		"userID": result.ID,
		"email":  req.Email,
	})

	return c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req auth.RegisterInput

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	user, err := h.Service.Register(c.Request().Context(), req)
	if err != nil {
		return authError(err)
	}

	h.publish(c, user.ID, map[string]interface{}{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	var req struct {
		ID string `json:"id"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if err := h.Service.Logout(c.Request().Context(), req.ID); err != nil {
		return authError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) RefreshAccessToken(c echo.Context) error {
	var req struct {
		AccessToken string `json:"accessToken"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	accessToken, err := h.Service.RefreshAccessToken(c.Request().Context(), req.AccessToken)
	if err != nil {
		return authError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"accessToken": accessToken})
}
