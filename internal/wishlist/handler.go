package wishlist

import (
	"errors"
	"net/http"

	"shopmart-be/internal/logger"
	"shopmart-be/internal/product"
	"shopmart-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/wishlist", h.List)
	rg.GET("/wishlist/count", h.Count)
	rg.POST("/wishlist", h.Add)
	rg.DELETE("/wishlist/:id", h.Remove)
}

func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := utils.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return userID, ok
}

func (h *Handler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("failed to list wishlist", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
		return
	}

	if items == nil {
		items = []*WishlistItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Count(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	n, err := h.svc.Count(c.Request.Context(), userID)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("failed to count wishlist", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *Handler) Add(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.svc.Add(c.Request.Context(), userID, input.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, ErrAlreadyInWishlist):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Already in wishlist"})
		default:
			logger.FromCtx(c.Request.Context()).Error("failed to add to wishlist", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to wishlist"})
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *Handler) Remove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist item not found"})
			return
		}
		logger.FromCtx(c.Request.Context()).Error("failed to remove from wishlist", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
}
