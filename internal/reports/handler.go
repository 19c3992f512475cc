package reports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/auth"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/httperr"
)

var contentTypes = map[string]string{
	FormatCSV:  "text/csv",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
}

type Handler struct {
	service   *Service
	repo      Repository
	runner    ScheduleRunner
	exporters map[string]Exporter
}

// NewHandler wires the report endpoints. runner may be nil when the scheduler
// is disabled; schedules are then stored but only picked up on restart.
func NewHandler(service *Service, repo Repository, runner ScheduleRunner, exporters map[string]Exporter) *Handler {
	return &Handler{service: service, repo: repo, runner: runner, exporters: exporters}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/companies/:cid/products/:pid/report", h.GetReport)
	rg.POST("/report-schedules", h.CreateSchedule)
	rg.GET("/report-schedules", h.ListSchedules)
	rg.DELETE("/report-schedules/:id", h.DeleteSchedule)
}

func (h *Handler) GetReport(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		httperr.BadRequest(c, "invalid product id")
		return
	}

	format := c.DefaultQuery("format", FormatJSON)
	if !IsValidFormat(format) {
		httperr.BadRequest(c, fmt.Sprintf("unsupported format %q", format))
		return
	}

	report, err := h.service.Build(c.Request.Context(), auth.CallerCompanyID(c), productID)
	if err != nil {
		httperr.NotFound(c, err.Error())
		return
	}

	exporter, ok := h.exporters[format]
	if !ok {
		c.JSON(http.StatusOK, report)
		return
	}

	filename := fmt.Sprintf("footprint-%s-%s.%s", report.ProductID, time.Now().Format("20060102"), format)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", contentTypes[format])
	if err := exporter.Write(report, c.Writer); err != nil {
		httperr.Internal(c, err)
	}
}

func (h *Handler) CreateSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if !IsValidFormat(req.Format) {
		httperr.BadRequest(c, fmt.Sprintf("unsupported format %q", req.Format))
		return
	}
	if err := ValidateCronExpression(req.CronExpr); err != nil {
		httperr.BadRequest(c, "invalid cron expression: "+err.Error())
		return
	}

	callerCompany := auth.CallerCompanyID(c)

	// The schedule runs on behalf of the company, so the product has to be
	// theirs. Build enforces the same ownership rule at run time.
	if _, err := h.service.Build(c.Request.Context(), callerCompany, req.ProductID); err != nil {
		httperr.NotFound(c, err.Error())
		return
	}

	schedule := &Schedule{
		ID:        uuid.New(),
		CompanyID: callerCompany,
		ProductID: req.ProductID,
		Format:    req.Format,
		CronExpr:  req.CronExpr,
		CreatedAt: time.Now(),
	}

	if err := h.repo.CreateSchedule(c.Request.Context(), schedule); err != nil {
		httperr.Internal(c, err)
		return
	}

	if h.runner != nil {
		if err := h.runner.Add(*schedule); err != nil {
			httperr.Internal(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, schedule)
}

func (h *Handler) ListSchedules(c *gin.Context) {
	schedules, err := h.repo.ListSchedules(c.Request.Context(), auth.CallerCompanyID(c))
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

func (h *Handler) DeleteSchedule(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid schedule id")
		return
	}

	schedule, err := h.repo.GetScheduleByID(c.Request.Context(), scheduleID)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	if schedule == nil || schedule.CompanyID != auth.CallerCompanyID(c) {
		httperr.NotFound(c, "schedule not found")
		return
	}

	if err := h.repo.DeleteSchedule(c.Request.Context(), scheduleID); err != nil {
		httperr.Internal(c, err)
		return
	}
	if h.runner != nil {
		h.runner.Remove(scheduleID)
	}

	c.Status(http.StatusNoContent)
}
