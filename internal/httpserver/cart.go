package httpserver

import (
	"errors"
	"net/http"

	"grocermart/internal/domain"
	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.Cart.Get(c.Request.Context(), sessionToken(c))
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": cartItemsView(cart),
		"total": domain.FormatCents(cart.TotalPrice),
	})
}

func (h *handlers) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	token, err := h.ensureSession(c)
	if err != nil {
		h.internalError(c, err)
		return
	}
	cart, err := h.deps.Cart.Add(c.Request.Context(), token, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		case errors.Is(err, domain.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Quantity must be a positive integer"})
		default:
			h.internalError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Product added to cart",
		"cart":    cartItemsView(cart),
	})
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	cart, err := h.deps.Cart.UpdateQuantity(c.Request.Context(), sessionToken(c), c.Param("itemId"), req.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated",
		"cart":    cartItemsView(cart),
		"total":   domain.FormatCents(cart.TotalPrice),
	})
}

func (h *handlers) removeCartItem(c *gin.Context) {
	cart, err := h.deps.Cart.Remove(c.Request.Context(), sessionToken(c), c.Param("itemId"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item removed",
		"cart":    cartItemsView(cart),
		"total":   domain.FormatCents(cart.TotalPrice),
	})
}

func (h *handlers) clearCart(c *gin.Context) {
	if err := h.deps.Cart.Clear(c.Request.Context(), sessionToken(c)); err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
}
