package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *App) HandleLiveness(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{"alive": true})
}

// HandleReadiness pings the database; Redis is advisory and does not
// gate readiness.
func (a *App) HandleReadiness(c *gin.Context) {
	if err := a.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "database unreachable",
		})
		return
	}
	respondData(c, http.StatusOK, gin.H{"ready": true})
}
