package bom

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
	bom := rg.Group("/companies/:cid/products/:pid/bom")
	{
		bom.GET("", h.List)
		bom.POST("", h.Create)
		bom.PATCH("/:lid", h.Update)
		bom.DELETE("/:lid", h.Delete)
		bom.POST("/:lid/request-access", h.RequestAccess)
	}
}

func (h *Handler) List(c *gin.Context) {
	productID, ok := h.parseProductScope(c)
	if !ok {
		return
	}

	views, err := h.service.List(c.Request.Context(), auth.CallerCompanyID(c), productID)
	if err != nil {
		httperr.Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *Handler) Create(c *gin.Context) {
	productID, ok := h.parseProductScope(c)
	if !ok {
		return
	}

	var req CreateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	view, err := h.service.Create(c.Request.Context(), auth.CallerCompanyID(c), auth.CallerUserID(c), productID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *Handler) Update(c *gin.Context) {
	productID, ok := h.parseProductScope(c)
	if !ok {
		return
	}
	lineItemID, err := uuid.Parse(c.Param("lid"))
	if err != nil {
		httperr.BadRequest(c, "invalid line item id")
		return
	}

	var req UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	view, err := h.service.UpdateQuantity(c.Request.Context(), auth.CallerCompanyID(c), auth.CallerUserID(c), productID, lineItemID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) Delete(c *gin.Context) {
	productID, ok := h.parseProductScope(c)
	if !ok {
		return
	}
	lineItemID, err := uuid.Parse(c.Param("lid"))
	if err != nil {
		httperr.BadRequest(c, "invalid line item id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), auth.CallerCompanyID(c), auth.CallerUserID(c), productID, lineItemID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) RequestAccess(c *gin.Context) {
	productID, ok := h.parseProductScope(c)
	if !ok {
		return
	}
	lineItemID, err := uuid.Parse(c.Param("lid"))
	if err != nil {
		httperr.BadRequest(c, "invalid line item id")
		return
	}

	view, err := h.service.RequestAccess(c.Request.Context(), auth.CallerCompanyID(c), auth.CallerUserID(c), productID, lineItemID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) parseProductScope(c *gin.Context) (uuid.UUID, bool) {
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

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		httperr.NotFound(c, msg)
	case strings.Contains(msg, "quantity") || strings.Contains(msg, "own material"):
		httperr.BadRequest(c, msg)
	default:
		httperr.Internal(c, err)
	}
}
