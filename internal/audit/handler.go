package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/auth"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/httperr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/companies/:cid/audit-log", h.List)
}

func (h *Handler) List(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("cid"))
	if err != nil {
		httperr.BadRequest(c, "invalid company id")
		return
	}
	if companyID != auth.CallerCompanyID(c) {
		httperr.Forbidden(c, "audit log is only visible to its own company")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.service.ListByCompany(c.Request.Context(), companyID, page, pageSize)
	if err != nil {
		httperr.Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
