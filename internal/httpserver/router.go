package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
	"storefront/internal/metrics"
	cartsvc "storefront/internal/service/cart"
	ordersvc "storefront/internal/service/order"
	sessionsvc "storefront/internal/service/session"
)

type cartService interface {
	ResolveCartID(ctx context.Context, currentCartID string) (string, error)
	GetCart(ctx context.Context, cartID string) (*domain.CartView, error)
	Summary(ctx context.Context, cartID string) (domain.CartSummary, error)
	AddItem(ctx context.Context, cartID string, in cartsvc.AddItemInput) (string, error)
	RemoveItem(ctx context.Context, cartID string, in cartsvc.RemoveItemInput) (string, error)
}

type orderService interface {
	PlaceOrder(ctx context.Context, cartID string) (*domain.Order, error)
	Get(ctx context.Context, in ordersvc.GetOrderInput) (*domain.OrderDetails, error)
}

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	ListTrending(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type sessionCodec interface {
	Get(token string) sessionsvc.Data
	Set(token string, data sessionsvc.Data) (string, error)
	TTLSeconds() int
}

// Deps are the services the router dispatches to. Metrics is optional.
type Deps struct {
	CartSvc    cartService
	OrderSvc   orderService
	ProductSvc productService
	Sessions   sessionCodec
	Metrics    *metrics.Metrics
}

// Options tune the transport without touching services.
type Options struct {
	CORSOrigins  []string
	CookieSecure bool
}

var errMissingDeps = errors.New("httpserver: cart, order, product and session dependencies are required")

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*gin.Engine, error) {
	if deps.CartSvc == nil || deps.OrderSvc == nil || deps.ProductSvc == nil || deps.Sessions == nil {
		return nil, errMissingDeps
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	var store storeChecker
	if db != nil {
		store = db
	}
	router.GET("/readyz", readyHandler(store))

	products := &productHandler{svc: deps.ProductSvc}
	router.GET("/products", products.list)
	router.GET("/products/trending", products.trending)
	router.GET("/products/:productId", products.get)

	carts := &cartHandler{svc: deps.CartSvc}
	orders := &orderHandler{svc: deps.OrderSvc, logger: logger}

	session := router.Group("/", sessionMiddleware(deps.CartSvc, deps.Sessions, opts.CookieSecure))
	session.GET("/cart", carts.get)
	session.GET("/cart/summary", carts.summary)
	session.POST("/cart/items", carts.add)
	session.DELETE("/cart/items/:lineItemId", carts.remove)
	session.POST("/cart/remove/:lineItemId", carts.remove)
	session.POST("/checkout", orders.checkout)

	router.GET("/orders/:orderId", orders.get)

	return router, nil
}
