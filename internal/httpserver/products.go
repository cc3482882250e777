package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"grocermart/internal/domain"
	catalogsvc "grocermart/internal/service/catalog"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

func (h *handlers) listProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "9"))
	listing, err := h.deps.Catalog.PublicList(c.Request.Context(), catalogsvc.PublicListInput{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		h.internalError(c, err)
		return
	}
	resp := gin.H{
		"products": toProductViews(listing.Products),
		"total":    listing.Total,
		"pages":    listing.Pages,
		"page":     listing.Page,
	}
	if listing.Categories != nil {
		resp["categories"] = listing.Categories
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) adminListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	products, total, totalPages, err := h.deps.Catalog.AdminList(c.Request.Context(), catalogsvc.AdminListInput{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Sort:     c.DefaultQuery("sort", "title_asc"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		h.internalError(c, err)
		return
	}
	if page < 1 {
		page = 1
	}
	c.JSON(http.StatusOK, gin.H{
		"products":   toProductViews(products),
		"total":      total,
		"page":       page,
		"totalPages": totalPages,
	})
}

func (h *handlers) adminGetProduct(c *gin.Context) {
	p, err := h.deps.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductView(*p))
}

func (h *handlers) adminCreateProduct(c *gin.Context) {
	var in catalogsvc.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	p, err := h.deps.Catalog.Create(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": toProductView(*p),
	})
}

func (h *handlers) adminUpdateProduct(c *gin.Context) {
	var in catalogsvc.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	p, err := h.deps.Catalog.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": toProductView(*p),
	})
}

func (h *handlers) adminToggleProductStatus(c *gin.Context) {
	p, err := h.deps.Catalog.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	status := "activated"
	if p.IsDeleted {
		status = "deactivated"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Product " + status,
		"product": toProductView(*p),
	})
}

func (h *handlers) adminDeleteProduct(c *gin.Context) {
	if err := h.deps.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *handlers) adminExportProducts(c *gin.Context) {
	products, err := h.deps.Catalog.ExportAll(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		h.internalError(c, err)
		return
	}

	headers := []string{
		"ID", "Title", "Price", "PriceDescription", "ProductDescription",
		"ImagePath", "Category", "Status", "CreatedAt",
	}
	headerRow := sheet.AddRow()
	for _, col := range headers {
		headerRow.AddCell().SetValue(col)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Title)
		row.AddCell().SetValue(domain.FormatCents(p.PriceCents))
		row.AddCell().SetValue(p.PriceDescription)
		row.AddCell().SetValue(p.ProductDescription)
		row.AddCell().SetValue(p.ImagePath)
		row.AddCell().SetValue(p.Category)
		active := "active"
		if p.IsDeleted {
			active = "inactive"
		}
		row.AddCell().SetValue(active)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		h.logger.Printf("product export: %v", err)
	}
}
