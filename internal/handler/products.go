package handler

import (
	"errors"
	"net/http"
	"strconv"

	"stockpilot/internal/apierror"
	"stockpilot/internal/config"
	"stockpilot/internal/dto"
	"stockpilot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductsHandler struct {
	svc service.InventoryService
	cfg *config.Config
}

func NewProductsHandler(svc service.InventoryService, cfg *config.Config) *ProductsHandler {
	return &ProductsHandler{svc: svc, cfg: cfg}
}

// List godoc
// @Summary      List catalog
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	products, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list products"))
		return
	}
	c.JSON(http.StatusOK, products)
}

// Search matches q as a substring of name or category.
func (h *ProductsHandler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusOK, []dto.ProductResponse{})
		return
	}
	products, err := h.svc.Search(c.Request.Context(), term)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to search products"))
		return
	}
	c.JSON(http.StatusOK, products)
}

// LowStock lists products at or below the threshold (config default).
func (h *ProductsHandler) LowStock(c *gin.Context) {
	threshold := h.cfg.LowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid threshold"))
			return
		}
		threshold = n
	}
	products, err := h.svc.LowStock(c.Request.Context(), threshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list low stock"))
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	product, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Product not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load product"))
		return
	}
	c.JSON(http.StatusOK, product)
}

// Create godoc
// @Summary      Add a product (admin)
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductRequest true "Product"
// @Success      201 {object} dto.ProductResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /api/admin/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	product, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
}

// Update applies a partial patch; absent fields stay unchanged.
func (h *ProductsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	product, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Product not found"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	deleted, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to delete product"))
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, apierror.New("Product not found"))
		return
	}
	c.Status(http.StatusNoContent)
}
