package handlers

import (
	"net/http"

	"speed-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userTypeRequest struct {
	UserType string `json:"userType"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req services.RegisterInput
	if !BindJSONOrError(c, &req) {
		return
	}
	u, token, err := authService(c).Register(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "registrasi berhasil", "token": token, "user": u})
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	u, token, err := authService(c).Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

// GET /api/me
func Me(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	u, err := current().Users.GetByID(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// PUT /api/me/user-type
func UpdateUserType(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	var req userTypeRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	u, token, err := authService(c).SwitchUserType(c.Request.Context(), rc.UserID, req.UserType)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}
