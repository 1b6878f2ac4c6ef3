package controller

import (
	"net/http"

	"github.com/mcpward/mcpward/internal/config"

	"github.com/gin-gonic/gin"
)

// ContextController exposes the resolved principal to authenticated callers.
// Tool dispatchers sit behind the same middleware and consume the same
// context value.
type ContextController struct {
	router *gin.RouterGroup
}

func NewContextController(router *gin.RouterGroup) *ContextController {
	return &ContextController{
		router: router,
	}
}

func (controller *ContextController) SetupRoutes() {
	controller.router.GET("/whoami", controller.whoamiHandler)
}

func (controller *ContextController) whoamiHandler(c *gin.Context) {
	value, exists := c.Get("principal")

	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":             "invalid_token",
			"error_description": "No authenticated principal",
		})
		return
	}

	principal, ok := value.(config.Principal)

	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "server_error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":     principal.UserID,
		"username":    principal.Username,
		"roles":       principal.Roles,
		"scopes":      principal.Scopes,
		"client_id":   principal.ClientID,
		"auth_method": principal.AuthMethod,
	})
}
