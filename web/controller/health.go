package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/drsdgdbye/user-panel/database"
	"github.com/drsdgdbye/user-panel/web/entity"

	"github.com/gin-gonic/gin"
)

// NewHealthController registers GET /healthz, which reports store reachability.
func NewHealthController(g *gin.RouterGroup) {
	g.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx); err != nil {
			pureJsonMsg(c, http.StatusServiceUnavailable, entity.Fail(err.Error()))
			return
		}
		pureJsonMsg(c, http.StatusOK, entity.Ok())
	})
}
