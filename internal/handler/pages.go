package handler

import (
	"net/http"

	"stockpilot/internal/config"
	"stockpilot/internal/middleware"
	"stockpilot/internal/service"

	"github.com/gin-gonic/gin"
)

// PagesHandler serves the server-rendered HTML surface.
type PagesHandler struct {
	inventory service.InventoryService
	sales     service.SalesService
	cfg       *config.Config
}

func NewPagesHandler(inventory service.InventoryService, sales service.SalesService, cfg *config.Config) *PagesHandler {
	return &PagesHandler{inventory: inventory, sales: sales, cfg: cfg}
}

func (h *PagesHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// Dashboard lists the catalog plus the current low-stock items.
func (h *PagesHandler) Dashboard(c *gin.Context) {
	claims := middleware.GetClaims(c)

	products, err := h.inventory.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	lowStock, err := h.inventory.LowStock(c.Request.Context(), h.cfg.LowStockThreshold)
	if err != nil {
		c.Error(err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Username": claims.Username,
		"IsAdmin":  claims.Role == "admin",
		"Products": products,
		"LowStock": lowStock,
	})
}

// Admin renders the aggregate sales report. Role gating happens in the
// middleware chain, not here.
func (h *PagesHandler) Admin(c *gin.Context) {
	report, err := h.sales.Report(c.Request.Context(), h.cfg.ReportDays)
	if err != nil {
		c.Error(err)
		return
	}
	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Username": middleware.GetClaims(c).Username,
		"Report":   report,
	})
}
