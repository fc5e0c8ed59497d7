package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"houseshow-backend/services"
	"houseshow-backend/utils"
)

type AuthController struct {
	AuthSvc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{AuthSvc: svc}
}

func (ac *AuthController) Register(c *gin.Context) {
	var payload services.RegisterInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadPayload(c, err)
		return
	}
	user, err := ac.AuthSvc.Register(c.Request.Context(), payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, user)
}

func (ac *AuthController) Login(c *gin.Context) {
	var payload services.LoginInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadPayload(c, err)
		return
	}
	token, user, err := ac.AuthSvc.Login(c.Request.Context(), payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
