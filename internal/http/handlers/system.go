package handlers

import (
	"net/http"
	"sync"

	intdb "speed-backend/internal/db"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "backend golang berjalan", "store": current().Env.Store})
}

func DBCheck(c *gin.Context) {
	db := current().DB
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database belum terhubung", "store": current().Env.Store})
		return
	}
	if err := db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal ping ke database: " + err.Error()})
		return
	}
	missing := intdb.MissingTables(c.Request.Context(), db, intdb.Tables...)
	if len(missing) > 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "schema belum lengkap", "missing_tables": missing})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "koneksi database OK"})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router belum siap"})
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
