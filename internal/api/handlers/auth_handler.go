package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/api/response"
	"github.com/yoockh/yoojob/internal/services"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, "AuthHandler.Signup", err)
		return
	}

	u, err := h.svc.Signup(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, "Signup successful", u)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, "AuthHandler.Login", err)
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Login successful", res)
}
