package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mzhdanov/authd/internal/models"
	"github.com/mzhdanov/authd/internal/service"
)

const tokenTypeBearer = "Bearer"

type Controller struct {
	zapLogger         *zap.SugaredLogger
	authService       *service.AuthService
	guard             *service.Guard
	refreshCookieName string
}

func NewController(logger *zap.SugaredLogger, authService *service.AuthService, guard *service.Guard, refreshCookieName string) *Controller {
	return &Controller{
		zapLogger:         logger,
		authService:       authService,
		guard:             guard,
		refreshCookieName: refreshCookieName,
	}
}

func RegisterHandlersWithBaseURL(e *echo.Echo, c *Controller, base string) {
	g := e.Group(base)
	g.GET("/ping", c.CheckServer)
	g.POST("/auth/register", c.Register)
	g.POST("/auth/login", c.Login)
	g.POST("/auth/refresh", c.Refresh)
	g.POST("/auth/logout", c.Logout)
	g.GET("/auth/profile", c.GetProfile)
	g.PATCH("/auth/profile", c.UpdateProfile)
}

// (GET /ping).
func (c *Controller) CheckServer(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, "ok")
}

// (POST /auth/register).
func (c *Controller) Register(ctx echo.Context) error {
	var req models.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := c.authService.Register(ctx.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, userResponse(user))
}

// (POST /auth/login).
func (c *Controller) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	pair, err := c.authService.Login(ctx.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	c.setRefreshCookie(ctx, pair.RefreshToken, pair.RefreshExpiresAt)
	return ctx.JSON(http.StatusOK, tokenPairResponse(pair))
}

// (POST /auth/refresh). The refresh token arrives in its dedicated HttpOnly
// cookie, never in a header.
func (c *Controller) Refresh(ctx echo.Context) error {
	token := c.refreshTokenFromCookie(ctx)

	userID, err := c.guard.ResolveRefresh(ctx.Request().Context(), token)
	if err != nil {
		return err
	}

	pair, err := c.authService.Rotate(ctx.Request().Context(), userID)
	if err != nil {
		return err
	}

	c.setRefreshCookie(ctx, pair.RefreshToken, pair.RefreshExpiresAt)
	return ctx.JSON(http.StatusOK, tokenPairResponse(pair))
}

// (POST /auth/logout).
func (c *Controller) Logout(ctx echo.Context) error {
	userID, err := c.guard.ResolveAccess(ctx.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return err
	}

	if err := c.authService.Revoke(ctx.Request().Context(), userID); err != nil {
		return err
	}

	c.clearRefreshCookie(ctx)
	return ctx.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

// (GET /auth/profile).
func (c *Controller) GetProfile(ctx echo.Context) error {
	userID, err := c.guard.ResolveAccess(ctx.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return err
	}

	user, err := c.authService.GetProfile(ctx.Request().Context(), userID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, userResponse(user))
}

// (PATCH /auth/profile).
func (c *Controller) UpdateProfile(ctx echo.Context) error {
	userID, err := c.guard.ResolveAccess(ctx.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return err
	}

	var req models.ProfilePatchRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	patch := models.UserPatch{FirstName: req.FirstName, LastName: req.LastName}
	if err := c.authService.UpdateProfile(ctx.Request().Context(), userID, patch); err != nil {
		return err
	}

	user, err := c.authService.GetProfile(ctx.Request().Context(), userID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, userResponse(user))
}

func (c *Controller) refreshTokenFromCookie(ctx echo.Context) string {
	cookie, err := ctx.Cookie(c.refreshCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (c *Controller) setRefreshCookie(ctx echo.Context, token string, expiresAt time.Time) {
	ctx.SetCookie(&http.Cookie{
		Name:     c.refreshCookieName,
		Value:    token,
		Expires:  expiresAt,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *Controller) clearRefreshCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     c.refreshCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func userResponse(user *models.User) models.UserResponse {
	return models.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

func tokenPairResponse(pair *service.TokenPair) models.TokenPairResponse {
	return models.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Type:         tokenTypeBearer,
	}
}
