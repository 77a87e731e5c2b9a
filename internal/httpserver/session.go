package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "session"
	cartIDKey     = "cartID"
)

// sessionMiddleware resolves the visitor's cart before cart routes run and
// re-issues the cookie whenever the cart id changed.
func sessionMiddleware(carts cartService, sessions sessionCodec, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(sessionCookie)
		data := sessions.Get(token)

		cartID, err := carts.ResolveCartID(c.Request.Context(), data.CurrentCartID)
		if err != nil {
			writeError(c, err)
			return
		}
		if cartID != data.CurrentCartID {
			data.CurrentCartID = cartID
			signed, err := sessions.Set(token, data)
			if err != nil {
				writeError(c, err)
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, signed, sessions.TTLSeconds(), "/", "", secure, true)
		}

		c.Set(cartIDKey, cartID)
		c.Next()
	}
}

func cartIDFrom(c *gin.Context) string {
	return c.GetString(cartIDKey)
}
