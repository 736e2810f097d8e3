package handler

import (
	"errors"
	"net/http"
	"strings"

	"stockpilot/internal/apierror"
	"stockpilot/internal/dto"
	"stockpilot/internal/middleware"
	"stockpilot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type AuthHandler struct {
	svc service.AuthService
	rdb *redis.Client
}

func NewAuthHandler(svc service.AuthService, rdb *redis.Client) *AuthHandler {
	return &AuthHandler{svc: svc, rdb: rdb}
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login handles both the browser form post and JSON API clients.
// Form flow: success sets the session cookie and redirects to the dashboard,
// failure re-renders the form with an error. JSON flow: token in the body.
func (h *AuthHandler) Login(c *gin.Context) {
	if strings.Contains(c.ContentType(), "application/json") {
		h.loginJSON(c)
		return
	}

	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": "Invalid credentials"})
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		msg := "Invalid credentials"
		if !errors.Is(err, service.ErrInvalidCredentials) {
			msg = "Login is temporarily unavailable"
		}
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": msg})
		return
	}

	c.SetCookie(middleware.SessionCookie, resp.AccessToken, resp.ExpiresIn, "/", "", false, true)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) loginJSON(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, apierror.New("Invalid credentials"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Login failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout revokes the current session token and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	_ = middleware.RevokeToken(c.Request.Context(), h.rdb, claims)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}
