package httpserver

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"
)

type orderHandler struct {
	svc    orderService
	logger *log.Logger
}

// checkout drains the session cart. The stale cart id left in the cookie is
// replaced by the session middleware on the next cart request.
func (h *orderHandler) checkout(c *gin.Context) {
	order, err := h.svc.PlaceOrder(c.Request.Context(), cartIDFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	h.logger.Printf("checkout: order=%s total_cents=%d", order.ID, order.TotalCents)
	c.JSON(http.StatusCreated, order)
}

func (h *orderHandler) get(c *gin.Context) {
	var in ordersvc.GetOrderInput
	if err := c.ShouldBindUri(&in); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}
	details, err := h.svc.Get(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}
