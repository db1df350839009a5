package controllers

import (
	"net/http"

	"hotel-reservation/services"

	"github.com/gin-gonic/gin"
)

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshPayload struct {
	Refresh string `json:"refresh" binding:"required"`
}

type AuthController struct {
	UserSvc  *services.UserService
	TokenSvc *services.TokenService
}

func NewAuthController(users *services.UserService, tokens *services.TokenService) *AuthController {
	return &AuthController{UserSvc: users, TokenSvc: tokens}
}

// Register POST /api/register
// Self-registration always yields a guest account.
func (ac *AuthController) Register(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	user, err := ac.UserSvc.Register(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login POST /api/token
func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badPayload(c, err)
		return
	}
	user, err := ac.UserSvc.Authenticate(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(c, err, "")
		return
	}
	pair, err := ac.TokenSvc.Issue(*user)
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh POST /api/token/refresh
func (ac *AuthController) Refresh(c *gin.Context) {
	var payload refreshPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badPayload(c, err)
		return
	}
	claims, err := ac.TokenSvc.Parse(payload.Refresh, services.TokenTypeRefresh)
	if err != nil {
		writeError(c, err, "")
		return
	}
	user, err := ac.UserSvc.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		if services.IsNotFound(err) {
			writeError(c, services.ErrUnauthenticated, "")
			return
		}
		writeError(c, err, "")
		return
	}
	access, err := ac.TokenSvc.IssueAccess(*user)
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}
