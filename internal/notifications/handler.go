package notifications

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/auth"
	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/httperr"
	ws "carbon-ledger/supplier-portal/supplier-portal-backend/internal/notifications/websocket"
)

type Handler struct {
	service *Service
	manager *ws.Manager
}

func NewHandler(service *Service, manager *ws.Manager) *Handler {
	return &Handler{service: service, manager: manager}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.List)
	rg.POST("/notifications/:id/read", h.MarkRead)
	rg.GET("/ws", h.Connect)
}

func (h *Handler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	items, err := h.service.List(c.Request.Context(), auth.CallerCompanyID(c), unreadOnly, limit)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) MarkRead(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid notification id")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), auth.CallerCompanyID(c), notificationID); err != nil {
		httperr.NotFound(c, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// Connect upgrades to a websocket. Auth middleware already ran, so the
// caller's identity is on the context.
func (h *Handler) Connect(c *gin.Context) {
	_, err := h.manager.HandleConnection(c.Writer, c.Request, auth.CallerUserID(c), auth.CallerCompanyID(c))
	if err != nil {
		httperr.Internal(c, err)
		return
	}
}
