package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/observability"
)

// Deps carries everything the HTTP layer needs. OrderCatalog is nil unless
// order totals are verified against the catalog.
type Deps struct {
	Log          *logger.Logger
	JWTSecret    string
	Tokens       handlers.TokenIssuer
	CORSOrigins  []string
	Tracing      bool
	Ping         handlers.Pinger
	Carts        handlers.CartStore
	Addresses    handlers.AddressStore
	Orders       handlers.OrderStore
	Products     handlers.ProductStore
	Users        handlers.UserStore
	OrderCatalog handlers.ProductReader
	Publisher    events.Publisher
}

func NewRouter(d Deps) *gin.Engine {
	if d.Publisher == nil {
		d.Publisher = events.Noop{}
	}

	r := gin.New()
	r.Use(middleware.CORS(d.CORSOrigins))
	r.Use(middleware.RequestID())
	if d.Tracing {
		r.Use(otelgin.Middleware(observability.ServiceName))
	}
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(gin.Recovery())

	r.GET("/healthz", handlers.Health(d.Ping, d.Log))

	r.POST("/api/auth/register", handlers.Register(d.Users, d.Tokens, d.Log))
	r.POST("/api/auth/login", handlers.Login(d.Users, d.Tokens, d.Log))
	r.GET("/api/products", handlers.ListProducts(d.Products, d.Log))
	r.GET("/api/products/:productId", handlers.GetProduct(d.Products, d.Log))

	api := r.Group("/api")
	api.Use(middleware.UserAuth(d.JWTSecret, d.Log))
	{
		api.POST("/cart/add", handlers.AddToCart(d.Carts, d.Log))
		api.GET("/cart", handlers.GetCart(d.Carts, d.Log))
		api.DELETE("/cart/remove/:productId", handlers.RemoveFromCart(d.Carts, d.Log))
		api.POST("/cart/clear", handlers.ClearCart(d.Carts, d.Log))

		api.POST("/addresses", handlers.AddAddress(d.Addresses, d.Log))
		api.GET("/getaddress", handlers.GetAddresses(d.Addresses, d.Log))

		api.POST("/orders", handlers.PlaceOrder(d.Orders, d.OrderCatalog, d.Publisher, d.Log))
		api.GET("/getorder", handlers.GetUserOrders(d.Orders, d.Log))
		api.GET("/getallorders", handlers.GetAllOrders(d.Orders, d.Log))
		api.PUT("/orders/:orderId/update-delivery-status", handlers.MarkOrderDelivered(d.Orders, d.Publisher, d.Log))

		api.POST("/products", handlers.CreateProduct(d.Products, d.Log))
		api.DELETE("/products/:productId", handlers.DeleteProduct(d.Products, d.Log))

		api.DELETE("/users/:userId", handlers.DeleteUser(d.Users, d.Log))
		api.PUT("/users/:userId/edit-email", handlers.EditEmail(d.Users, d.Log))
	}

	return r
}
