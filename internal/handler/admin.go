package handler

import (
	"net/http"
	"strconv"

	"stockpilot/internal/apierror"
	"stockpilot/internal/config"
	"stockpilot/internal/dto"
	"stockpilot/internal/infra"
	"stockpilot/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin-only report and user management endpoints.
type AdminHandler struct {
	sales service.SalesService
	auth  service.AuthService
	cfg   *config.Config
}

func NewAdminHandler(sales service.SalesService, auth service.AuthService, cfg *config.Config) *AdminHandler {
	return &AdminHandler{sales: sales, auth: auth, cfg: cfg}
}

func (h *AdminHandler) reportDays(c *gin.Context) (int, bool) {
	days := h.cfg.ReportDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid days"))
			return 0, false
		}
		days = n
	}
	return days, true
}

// Report godoc
// @Summary      Sales report (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        days query int false "Trailing window in days (default 30)"
// @Success      200 {object} dto.SalesReport
// @Router       /api/admin/report [get]
func (h *AdminHandler) Report(c *gin.Context) {
	days, ok := h.reportDays(c)
	if !ok {
		return
	}
	report, err := h.sales.Report(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build report"))
		return
	}
	c.JSON(http.StatusOK, report)
}

// ReportPDF streams the same report as a PDF download.
func (h *AdminHandler) ReportPDF(c *gin.Context) {
	days, ok := h.reportDays(c)
	if !ok {
		return
	}
	report, err := h.sales.Report(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build report"))
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="sales_report.pdf"`)
	if err := infra.RenderReportPDF(report, c.Writer); err != nil {
		c.Error(err)
	}
}

// CreateUser lets an admin provision additional accounts.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	user, err := h.auth.CreateUser(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}
