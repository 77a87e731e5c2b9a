package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
)

type productHandler struct {
	svc productService
}

type productListResponse struct {
	Count   int              `json:"count"`
	Results []domain.Product `json:"results"`
}

func newProductList(products []domain.Product) productListResponse {
	if products == nil {
		products = []domain.Product{}
	}
	return productListResponse{Count: len(products), Results: products}
}

func (h *productHandler) list(c *gin.Context) {
	products, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductList(products))
}

func (h *productHandler) trending(c *gin.Context) {
	products, err := h.svc.ListTrending(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductList(products))
}

func (h *productHandler) get(c *gin.Context) {
	product, err := h.svc.Get(c.Request.Context(), c.Param("productId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
