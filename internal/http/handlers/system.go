package handlers

import (
	"net/http"
	"sync"

	intconfig "backoffice/internal/config"
	"backoffice/internal/repositories"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for /api/_routes.
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "backoffice api is running"})
}

// DBCheck pings the pool and reports which core tables are present.
func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "database is not connected", err)
		return
	}
	reports := repositories.CheckSchema(intconfig.DB, repositories.CoreTables())
	missing := 0
	for _, r := range reports {
		if !r.Exists {
			missing++
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "tables": reports, "missing_tables": missing})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		RespondError(c, http.StatusServiceUnavailable, "router is not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
