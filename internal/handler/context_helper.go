package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/acs-schedule-api/internal/middleware"
)

func actorID(c *gin.Context) string {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return ""
	}
	return claims.UserID
}
