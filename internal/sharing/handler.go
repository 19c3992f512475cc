package sharing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/auth"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/httperr"
	"carbon-ledger/supplier-portal/supplier-portal-backend/pkg/workflows"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/sharing-requests")
	{
		requests.POST("", h.Create)
		requests.GET("", h.List)
		requests.POST("/:id/accept", h.Accept)
		requests.POST("/:id/reject", h.Reject)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}

	request, err := h.service.RequestAccess(c.Request.Context(), auth.CallerCompanyID(c), req.ProductID)
	if err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *Handler) List(c *gin.Context) {
	var status *workflows.SharingStatus
	if raw := c.Query("status"); raw != "" {
		s := workflows.SharingStatus(raw)
		if !workflows.IsValid(s) {
			httperr.BadRequest(c, "unknown sharing status")
			return
		}
		status = &s
	}

	companyID := auth.CallerCompanyID(c)

	var (
		requests []SharingRequest
		err      error
	)
	if c.DefaultQuery("direction", "outgoing") == "incoming" {
		requests, err = h.service.ListIncoming(c.Request.Context(), companyID, status)
	} else {
		requests, err = h.service.ListOutgoing(c.Request.Context(), companyID, status)
	}
	if err != nil {
		httperr.Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *Handler) Accept(c *gin.Context) {
	h.decide(c, true)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *Handler) decide(c *gin.Context, accept bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid request id")
		return
	}

	request, err := h.service.Decide(c.Request.Context(), auth.CallerCompanyID(c), id, accept)
	if err != nil {
		httperr.Conflict(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, request)
}
