package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"grocermart/internal/domain"
	sessionrepo "grocermart/internal/repository/session"
	catalogsvc "grocermart/internal/service/catalog"
	ordersvc "grocermart/internal/service/order"
	usersvc "grocermart/internal/service/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionStore is the slice of the session repository the HTTP layer needs.
type SessionStore interface {
	Create(ctx context.Context, s sessionrepo.Session) error
	Get(ctx context.Context, token string) (*sessionrepo.Session, error)
	BindUser(ctx context.Context, token, userID string) error
	UnbindUser(ctx context.Context, token string) error
	Delete(ctx context.Context, token string) error
}

type CartService interface {
	Get(ctx context.Context, token string) (*domain.Cart, error)
	Add(ctx context.Context, token, productID string, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, token, itemID string, quantity int) (*domain.Cart, error)
	Remove(ctx context.Context, token, itemID string) (*domain.Cart, error)
	Clear(ctx context.Context, token string) error
}

type OrderService interface {
	Submit(ctx context.Context, token string, in ordersvc.SubmitInput) (*domain.Order, error)
	Cancel(ctx context.Context, orderID, requesterEmail string, admin bool) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error)
	Refund(ctx context.Context, orderID string) (*domain.Order, error)
	Get(ctx context.Context, orderID, requesterEmail string, admin bool) (*domain.Order, error)
	ListForUser(ctx context.Context, email string) ([]domain.Order, error)
	ListAll(ctx context.Context, in ordersvc.AdminListInput) ([]domain.Order, int, int, error)
}

type CatalogService interface {
	PublicList(ctx context.Context, in catalogsvc.PublicListInput) (*catalogsvc.PublicListing, error)
	AdminList(ctx context.Context, in catalogsvc.AdminListInput) ([]domain.Product, int, int, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in catalogsvc.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in catalogsvc.ProductInput) (*domain.Product, error)
	ToggleStatus(ctx context.Context, id string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	ExportAll(ctx context.Context) ([]domain.Product, error)
}

type UserService interface {
	Register(ctx context.Context, in usersvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id, fullName, phoneNumber string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, newPassword string) error
	List(ctx context.Context, in usersvc.AdminListInput) ([]domain.User, int, int, error)
	ToggleActive(ctx context.Context, id string) (*domain.User, error)
	ResetPassword(ctx context.Context, id string) error
}

// Deps carries everything the route table needs. Feed is optional; without it
// the websocket endpoint responds 503. CORSOrigins lists the browser origins
// allowed to send the session cookie; empty means the local dev frontend.
type Deps struct {
	Sessions    SessionStore
	Cart        CartService
	Orders      OrderService
	Catalog     CatalogService
	Users       UserService
	Feed        *Hub
	CORSOrigins []string
}

type handlers struct {
	logger *log.Logger
	deps   Deps
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.Sessions == nil || deps.Cart == nil || deps.Orders == nil || deps.Catalog == nil || deps.Users == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), metricsMiddleware())

	// Credentialed CORS requires concrete origins; browsers refuse the
	// session cookie against a wildcard.
	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &handlers{logger: logger, deps: deps}

	api := router.Group("/api", h.sessionMiddleware())

	api.GET("/products", h.listProducts)

	api.GET("/cart", h.getCart)
	api.POST("/cart/add", h.addToCart)
	api.PUT("/cart/items/:itemId", h.updateCartItem)
	api.DELETE("/cart/items/:itemId", h.removeCartItem)
	api.POST("/cart/clear", h.clearCart)

	api.POST("/orders", h.submitOrder)

	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)
	api.POST("/auth/logout", h.logout)
	api.GET("/auth/me", h.me)

	authed := api.Group("", h.requireAuth())
	authed.GET("/orders", h.listOrders)
	authed.GET("/orders/detail/:order_id", h.orderDetail)
	authed.POST("/orders/:order_id/cancel", h.cancelOrder)
	authed.PATCH("/users/:id/update-profile", h.updateProfile)
	authed.PATCH("/users/:id/update-password", h.updatePassword)

	admin := api.Group("/admin", h.requireAdmin())
	admin.GET("/orders", h.adminListOrders)
	admin.GET("/orders/ws", h.orderFeed)
	admin.PATCH("/orders/:id/status", h.adminUpdateOrderStatus)
	admin.POST("/orders/:id/refund", h.adminRefundOrder)

	admin.GET("/products", h.adminListProducts)
	admin.POST("/products", h.adminCreateProduct)
	admin.GET("/products/export", h.adminExportProducts)
	admin.GET("/products/:id", h.adminGetProduct)
	admin.PUT("/products/:id", h.adminUpdateProduct)
	admin.DELETE("/products/:id", h.adminDeleteProduct)
	admin.PATCH("/products/:id/toggle-status", h.adminToggleProductStatus)

	admin.GET("/users", h.adminListUsers)
	admin.PATCH("/users/:id/suspend", h.adminSuspendUser)
	admin.POST("/users/:id/reset-password", h.adminResetPassword)

	return router, nil
}
