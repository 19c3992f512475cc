package emissions

import (
	"net/http"
	"strings"

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
	transport := rg.Group("/companies/:cid/products/:pid/emissions/transport")
	{
		transport.GET("", h.ListTransport)
		transport.POST("", h.CreateTransport)
		transport.PUT("/:eid", h.UpdateTransport)
		transport.DELETE("/:eid", h.DeleteTransport)
	}

	energy := rg.Group("/companies/:cid/products/:pid/emissions/production-energy")
	{
		energy.GET("", h.ListEnergy)
		energy.POST("", h.CreateEnergy)
		energy.PUT("/:eid", h.UpdateEnergy)
		energy.DELETE("/:eid", h.DeleteEnergy)
	}
}

func (h *Handler) ListTransport(c *gin.Context) {
	productID, ok := parseProductScope(c)
	if !ok {
		return
	}

	views, err := h.service.ListTransport(c.Request.Context(), auth.CallerCompanyID(c), productID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) CreateTransport(c *gin.Context) {
	productID, ok := parseProductScope(c)
	if !ok {
		return
	}

	var req CreateTransportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	view, err := h.service.CreateTransport(c.Request.Context(), auth.CallerCompanyID(c), auth.CallerUserID(c), productID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) UpdateTransport(c *gin.Context) {
	productID, ok := parseProductScope(c)
	if !ok {
		return
	}
	entryID, err := uuid.Parse(c.Param("eid"))
	if err != nil {
		httperr.BadRequest(c, "invalid emission id")
		return
	}

	var req UpdateTransportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	view, err := h.service.UpdateTransport(c.Request.Context(), auth.CallerCompanyID(c), auth.CallerUserID(c), productID, entryID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) DeleteTransport(c *gin.Context) {
	productID, ok := parseProductScope(c)
	if !ok {
		return
	}
	entryID, err := uuid.Parse(c.Param("eid"))
	if err != nil {
		httperr.BadRequest(c, "invalid emission id")
		return
	}

	if err := h.service.DeleteTransport(c.Request.Context(), auth.CallerCompanyID(c), auth.CallerUserID(c), productID, entryID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListEnergy(c *gin.Context) {
	productID, ok := parseProductScope(c)
	if !ok {
		return
	}

	views, err := h.service.ListEnergy(c.Request.Context(), auth.CallerCompanyID(c), productID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) CreateEnergy(c *gin.Context) {
	productID, ok := parseProductScope(c)
	if !ok {
		return
	}

	var req CreateEnergyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	view, err := h.service.CreateEnergy(c.Request.Context(), auth.CallerCompanyID(c), auth.CallerUserID(c), productID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) UpdateEnergy(c *gin.Context) {
	productID, ok := parseProductScope(c)
	if !ok {
		return
	}
	entryID, err := uuid.Parse(c.Param("eid"))
	if err != nil {
		httperr.BadRequest(c, "invalid emission id")
		return
	}

	var req UpdateEnergyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	view, err := h.service.UpdateEnergy(c.Request.Context(), auth.CallerCompanyID(c), auth.CallerUserID(c), productID, entryID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) DeleteEnergy(c *gin.Context) {
	productID, ok := parseProductScope(c)
	if !ok {
		return
	}
	entryID, err := uuid.Parse(c.Param("eid"))
	if err != nil {
		httperr.BadRequest(c, "invalid emission id")
		return
	}

	if err := h.service.DeleteEnergy(c.Request.Context(), auth.CallerCompanyID(c), auth.CallerUserID(c), productID, entryID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseProductScope(c *gin.Context) (uuid.UUID, bool) {
	if _, err := uuid.Parse(c.Param("cid")); err != nil {
		httperr.BadRequest(c, "invalid company id")
		return uuid.Nil, false
	}
	productID, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		httperr.BadRequest(c, "invalid product id")
		return uuid.Nil, false
	}
	return productID, true
}

func writeServiceError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		httperr.NotFound(c, msg)
	case strings.Contains(msg, "required") ||
		strings.Contains(msg, "finite") ||
		strings.Contains(msg, "greater than zero") ||
		strings.Contains(msg, "lifecycle stage") ||
		strings.Contains(msg, "same product"):
		httperr.BadRequest(c, msg)
	default:
		httperr.Internal(c, err)
	}
}
