package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
)

type cartHandler struct {
	svc cartService
}

func (h *cartHandler) get(c *gin.Context) {
	view, err := h.svc.GetCart(c.Request.Context(), cartIDFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *cartHandler) summary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context(), cartIDFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *cartHandler) add(c *gin.Context) {
	var in cartsvc.AddItemInput
	if err := c.ShouldBind(&in); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}
	id, err := h.svc.AddItem(c.Request.Context(), cartIDFrom(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lineItemId": id})
}

func (h *cartHandler) remove(c *gin.Context) {
	var in cartsvc.RemoveItemInput
	if err := c.ShouldBindUri(&in); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}
	cartID, err := h.svc.RemoveItem(c.Request.Context(), cartIDFrom(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cartId": cartID})
}
