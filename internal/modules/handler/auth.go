package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WalidElHadhri/PDS/internal/modules/model"
	"github.com/WalidElHadhri/PDS/internal/modules/serializer"
	"github.com/WalidElHadhri/PDS/internal/modules/service"
	"github.com/WalidElHadhri/PDS/internal/pkg/utils/tokens"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{svc: s}
}

type RegisterReq struct {
	Username string `json:"username" binding:"required,min=3,max=30" example:"walid"`
	Email    string `json:"email" binding:"required,email" example:"walid@example.com"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// Register godoc
//
//	@Summary		Register
//	@Description	Create an account and return a bearer token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.RegisterReq	true	"Register payload"
//	@Success		201	{object}	serializer.Response{data=service.AuthOutput}
//	@Router			/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	req := RegisterReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("User with this email already exists", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Message: "User registered successfully", Data: out})
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email" example:"walid@example.com"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
//
//	@Summary		Login
//	@Description	Exchange credentials for a bearer token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.LoginReq	true	"Login payload"
//	@Success		200	{object}	serializer.Response{data=service.AuthOutput}
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	req := LoginReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, serializer.AuthErr("Invalid credentials"))
			return
		}
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Message: "Login successful", Data: out})
}

// Me godoc
//
//	@Summary		Current user
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := c.MustGet("user").(*model.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: user})
}

// Logout godoc
//
//	@Summary		Logout
//	@Description	Revoke the presented token until its natural expiry
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := c.MustGet("claims").(*tokens.Claims)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), claims); err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Message: "Logged out"})
}
