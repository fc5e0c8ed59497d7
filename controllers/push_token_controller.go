package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"houseshow-backend/services"
	"houseshow-backend/utils"
)

type PushTokenController struct {
	PushSvc *services.PushTokenService
}

func NewPushTokenController(svc *services.PushTokenService) *PushTokenController {
	return &PushTokenController{PushSvc: svc}
}

// POST /api/push-tokens
func (pc *PushTokenController) RegisterToken(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var payload services.PushTokenInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadPayload(c, err)
		return
	}
	if err := pc.PushSvc.Register(c.Request.Context(), actor, payload); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "push token saved"})
}

// DELETE /api/push-tokens?token=...
func (pc *PushTokenController) RemoveToken(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		var payload struct {
			Token string `json:"token"`
		}
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&payload); err != nil {
				respondBadPayload(c, err)
				return
			}
		}
		token = payload.Token
	}
	if err := pc.PushSvc.Remove(c.Request.Context(), actor, token); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
