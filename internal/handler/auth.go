package handler

import (
    "context"  // provides context with cancellation for DB calls
    "errors"   // error matching against service failure kinds
    "net/http" // HTTP status codes and primitives
    "strings"  // string manipulation utilities
    "time"     // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/vertramos/eco-reporte/internal/auth"    // token decode error kinds
    "github.com/vertramos/eco-reporte/internal/service" // session orchestration
)

// AuthHandler exposes the session lifecycle endpoints: login,
// google-login, refresh, validate-refresh-token and logout. All session
// logic lives in the service; this layer binds requests, applies the
// request timeout and converts failure kinds into HTTP responses.
type AuthHandler struct {
	Sessions *service.SessionService
}

func NewAuthHandler(sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{Sessions: sessions}
}

// ----- DTOs -----

type loginReq struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}
type googleLoginReq struct {
	Token string `json:"token"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type validateReq struct {
	RefreshTokenID string `json:"refresh_token_id"`
	UserID         uint64 `json:"userID"`
}
type logoutReq struct {
	IDToken string `json:"idToken"`
}

// loginResp is the token envelope returned by login and google-login.
// idRefreshToken is the id of the persisted refresh record; clients use
// it for validate-refresh-token and logout.
type loginResp struct {
	Message        string `json:"message"`
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token"`
	IDRefreshToken string `json:"idRefreshToken"`
}

// Login: verify local credentials and open a session, replacing any
// previous one for the same user.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Sessions.Login(ctx, req.Username, req.Password, req.RememberMe, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Usuario o contraseña incorrectos"})
		case errors.Is(err, service.ErrInactiveAccount):
			return c.JSON(http.StatusForbidden, echo.Map{"message": "Error: estado del usuario inactivo"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al iniciar sesión"})
		}
	}

	return c.JSON(http.StatusOK, loginResp{
		Message:        "Login exitoso",
		AccessToken:    pair.AccessToken,
		RefreshToken:   pair.RefreshToken,
		IDRefreshToken: pair.RefreshID,
	})
}

// GoogleLogin: same session behavior as Login but the credential check
// is delegated to Google's ID-token verification. First federated login
// creates the local account.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleLoginReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	pair, err := h.Sessions.GoogleLogin(ctx, req.Token, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		if errors.Is(err, service.ErrInactiveAccount) {
			return c.JSON(http.StatusForbidden, echo.Map{"message": "Error: estado del usuario inactivo"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"message": "Error al autenticar con Google",
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, loginResp{
		Message:        "Login con Google exitoso",
		AccessToken:    pair.AccessToken,
		RefreshToken:   pair.RefreshToken,
		IDRefreshToken: pair.RefreshID,
	})
}

// Refresh: exchange a refresh token for a new access token. The refresh
// token is not rotated in this flow.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Refresh token inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	grant, err := h.Sessions.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Refresh token expirado"})
		case errors.Is(err, auth.ErrTokenSignatureInvalid), errors.Is(err, auth.ErrTokenMalformed):
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Refresh token inválido"})
		case errors.Is(err, service.ErrWrongTokenType):
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "El token proporcionado no es un token de refresco"})
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Usuario no encontrado"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al procesar el token"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Token actualizado",
		"access_token": grant.AccessToken,
		"token_type":   "bearer",
		"expires_in":   grant.ExpiresIn,
	})
}

// ValidateRefreshToken: out-of-band check of a stored refresh record by
// token id and owner. Expired records are deleted on detection.
func (h *AuthHandler) ValidateRefreshToken(c echo.Context) error {
	var req validateReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshTokenID) == "" || req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"valid": false, "message": "Datos inválidos"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.Sessions.ValidateRefreshToken(ctx, strings.TrimSpace(req.RefreshTokenID), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenUnauthorized):
			return c.JSON(http.StatusUnauthorized, echo.Map{"valid": false, "message": "Token no válido o no autorizado"})
		case errors.Is(err, service.ErrRefreshExpired):
			return c.JSON(http.StatusUnauthorized, echo.Map{"valid": false, "message": "Token expirado"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"valid": false, "message": "Error al validar el token"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"valid": true, "message": "Token válido"})
}

// Logout: revoke the session by deleting its refresh record.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.IDToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.Logout(ctx, strings.TrimSpace(req.IDToken)); err != nil {
		if errors.Is(err, service.ErrTokenNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Error: No se encontró el token de refresco"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al cerrar sesión"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "OK"})
}
