package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/httperr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	refs := rg.Group("/emission-references")
	{
		refs.GET("", h.List)
		refs.GET("/:id", h.Get)
	}
	rg.GET("/lifecycle-stages", h.ListStages)
}

func (h *Handler) List(c *gin.Context) {
	references, err := h.service.ListReferences(c.Request.Context())
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, references)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid reference id")
		return
	}

	reference, err := h.service.GetReference(c.Request.Context(), id)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	if reference == nil {
		httperr.NotFound(c, "emission reference not found")
		return
	}
	c.JSON(http.StatusOK, reference)
}

func (h *Handler) ListStages(c *gin.Context) {
	stages, err := h.service.ListLifecycleStages(c.Request.Context())
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, stages)
}
