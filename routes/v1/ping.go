package v1

import (
	"net/http"

	"api/utils/response"

	"github.com/gin-gonic/gin"
)

// @Summary Health check
// @Description Returns pong when the API is up
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func ping(c *gin.Context) {
	response.Message(c, http.StatusOK, "pong")
}

// RegisterPingRoutes registers the health check route
func RegisterPingRoutes(r *gin.RouterGroup) {
	r.GET("/ping", ping)
}
