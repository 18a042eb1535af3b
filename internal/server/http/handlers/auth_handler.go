package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/craftmarket/internal/domain/model"
	"github.com/polkiloo/craftmarket/internal/server/http/dto"
	"github.com/polkiloo/craftmarket/internal/server/http/middleware"
)

// AuthHandler processes registration, login and profile updates.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/user/register. Artists awaiting approval get
// 202 without a session.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.facade.Register(c.Request.Context(), req.Login, req.Password, model.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	if token == "" {
		c.JSON(http.StatusAccepted, dto.NewUserResponse(*user))
		return
	}
	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.NewUserResponse(*user))
}

// Login handles POST /api/user/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.facade.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.NewUserResponse(*user))
}

// UpdateProfile handles PUT /api/user/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.facade.UpdateProfile(c.Request.Context(), CurrentActor(c).UserID, req.Profile())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(*user))
}
