package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"grocermart/internal/domain"
	ordersvc "grocermart/internal/service/order"
	"github.com/gin-gonic/gin"
)

func (h *handlers) submitOrder(c *gin.Context) {
	var in ordersvc.SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	order, err := h.deps.Orders.Submit(c.Request.Context(), sessionToken(c), in)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No items in cart"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Order created successfully",
		"order":    toOrderView(*order),
		"order_id": order.OrderID,
	})
}

func (h *handlers) cancelOrder(c *gin.Context) {
	u := currentUser(c)
	order, err := h.deps.Orders.Cancel(c.Request.Context(), c.Param("order_id"), u.Email, u.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		case errors.Is(err, domain.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Order cannot be cancelled. It may have already been processed."})
		default:
			h.internalError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"order":   toOrderView(*order),
	})
}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.deps.Orders.ListForUser(c.Request.Context(), currentUser(c).Email)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderViews(orders))
}

func (h *handlers) orderDetail(c *gin.Context) {
	u := currentUser(c)
	order, err := h.deps.Orders.Get(c.Request.Context(), c.Param("order_id"), u.Email, u.IsAdmin)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderView(*order))
}

func (h *handlers) adminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	orders, total, totalPages, err := h.deps.Orders.ListAll(c.Request.Context(), ordersvc.AdminListInput{
		Status:     c.Query("status"),
		DateFilter: c.Query("dateFilter"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		h.internalError(c, err)
		return
	}
	if page < 1 {
		page = 1
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":     toOrderViews(orders),
		"total":      total,
		"page":       page,
		"totalPages": totalPages,
	})
}

func (h *handlers) adminUpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	order, err := h.deps.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated to " + order.OrderStatus,
		"order":   toOrderView(*order),
	})
}

func (h *handlers) adminRefundOrder(c *gin.Context) {
	order, err := h.deps.Orders.Refund(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order refunded successfully",
		"order":   toOrderView(*order),
	})
}

func (h *handlers) orderFeed(c *gin.Context) {
	if h.deps.Feed == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Order feed not available"})
		return
	}
	h.deps.Feed.Serve(c.Writer, c.Request)
}
