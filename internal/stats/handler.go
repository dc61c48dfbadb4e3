package stats

import (
	"net/http"

	"shopmart-be/internal/logger"
	"shopmart-be/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/admin/stats", middleware.RequireAdmin(), h.Dashboard)
}

func (h *Handler) Dashboard(c *gin.Context) {
	s, err := h.repo.Dashboard(c.Request.Context())
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("failed to build dashboard stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, s)
}
