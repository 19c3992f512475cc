package companies

import (
	"net/http"

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
	companies := rg.Group("/companies")
	{
		companies.GET("", h.List)
		companies.GET("/my", h.My)
		companies.GET("/:cid", h.Get)
		companies.GET("/:cid/products", h.ListProducts)
		companies.GET("/:cid/products/:pid", h.GetProduct)
		companies.POST("/:cid/products", h.CreateProduct)
		companies.PUT("/:cid/products/:pid", h.UpdateProduct)
		companies.DELETE("/:cid/products/:pid", h.DeleteProduct)
	}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.ListCompanies(c.Request.Context())
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) My(c *gin.Context) {
	company, err := h.service.GetCompany(c.Request.Context(), auth.CallerCompanyID(c))
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	if company == nil {
		httperr.NotFound(c, "company not found")
		return
	}
	c.JSON(http.StatusOK, []Company{*company})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("cid"))
	if err != nil {
		httperr.BadRequest(c, "invalid company id")
		return
	}

	company, err := h.service.GetCompany(c.Request.Context(), id)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	if company == nil {
		httperr.NotFound(c, "company not found")
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *Handler) ListProducts(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("cid"))
	if err != nil {
		httperr.BadRequest(c, "invalid company id")
		return
	}

	products, err := h.service.ListProducts(c.Request.Context(), companyID, c.Query("search"))
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("cid"))
	if err != nil {
		httperr.BadRequest(c, "invalid company id")
		return
	}
	productID, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		httperr.BadRequest(c, "invalid product id")
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), productID)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	if product == nil || product.CompanyID != companyID {
		httperr.NotFound(c, "product not found")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("cid"))
	if err != nil {
		httperr.BadRequest(c, "invalid company id")
		return
	}
	if companyID != auth.CallerCompanyID(c) {
		httperr.Forbidden(c, "products can only be created for your own company")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), companyID, req)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("cid"))
	if err != nil {
		httperr.BadRequest(c, "invalid company id")
		return
	}
	productID, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		httperr.BadRequest(c, "invalid product id")
		return
	}
	if companyID != auth.CallerCompanyID(c) {
		httperr.Forbidden(c, "products can only be edited by their own company")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err.Error())
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), companyID, productID, req)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	if product == nil {
		httperr.NotFound(c, "product not found")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("cid"))
	if err != nil {
		httperr.BadRequest(c, "invalid company id")
		return
	}
	productID, err := uuid.Parse(c.Param("pid"))
	if err != nil {
		httperr.BadRequest(c, "invalid product id")
		return
	}
	if companyID != auth.CallerCompanyID(c) {
		httperr.Forbidden(c, "products can only be deleted by their own company")
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), companyID, productID); err != nil {
		httperr.NotFound(c, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
