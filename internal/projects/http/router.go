package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group. intakeGuards
// run in front of POST /intake only.
func (h *Handler) Register(rg *gin.RouterGroup, intakeGuards ...gin.HandlerFunc) {
	rg.POST("/intake", append(intakeGuards, h.intake)...)
	rg.GET("/projects", h.list)
	rg.GET("/project/:id", h.get)
	rg.PUT("/project/:id", h.update)
	rg.POST("/project/:id/snapshot", h.snapshot)
}
