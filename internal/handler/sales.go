package handler

import (
	"net/http"

	"stockpilot/internal/apierror"
	"stockpilot/internal/dto"
	"stockpilot/internal/middleware"
	"stockpilot/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct{ svc service.SalesService }

func NewSalesHandler(svc service.SalesService) *SalesHandler { return &SalesHandler{svc: svc} }

// Purchase godoc
// @Summary      Purchase a product
// @Description  Atomic stock-checked purchase: the sale snapshot and the stock decrement commit together or not at all.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PurchaseRequest true "Purchase"
// @Success      200 {object} dto.PurchaseResult
// @Failure      422 {object} apierror.ValidationError
// @Router       /api/purchase [post]
func (h *SalesHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)
	productID, _ := uuid.Parse(req.ProductID)

	// Business failures (unknown product, insufficient stock) are part of the
	// result body, not HTTP errors — success=false with a message.
	result, err := h.svc.CreateSale(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Purchase failed"))
		return
	}
	c.JSON(http.StatusOK, result)
}

// MySales returns the authenticated user's purchase history.
func (h *SalesHandler) MySales(c *gin.Context) {
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	sales, err := h.svc.SalesByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, sales)
}
