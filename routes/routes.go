package routes

import (
	"net/http"

	"agrimart/auth"
	"agrimart/cart"
	"agrimart/catalog"
	"agrimart/filemgr"
	"agrimart/middleware"
	"agrimart/models"
	"agrimart/orders"
	"agrimart/ratelim"

	"github.com/julienschmidt/httprouter"
)

// Deps carries the wired handlers and middleware into route registration.
type Deps struct {
	Auth        *middleware.Auth
	RateLimiter *ratelim.RateLimiter
	Catalog     *catalog.Handler
	Cart        *cart.Handler
	Account     *auth.Handler
	Orders      *orders.Handler
}

func RoutesWrapper(router *httprouter.Router, d Deps) {
	AddAuthRoutes(router, d)
	AddCatalogRoutes(router, d)
	AddCartRoutes(router, d)
	AddOrderRoutes(router, d)
	AddImageRoutes(router, d)
	AddStaticRoutes(router)
}

func AddAuthRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/auth/signup", d.RateLimiter.Limit(d.Account.Signup))
	router.POST("/api/auth/login", d.RateLimiter.Limit(d.Account.Login))
	router.GET("/api/auth/me", d.Account.Me)
	router.PATCH("/api/auth/me", d.Auth.Authenticate(d.Account.UpdateProfile))
	router.POST("/api/auth/logout", d.Auth.Authenticate(d.Account.Logout))
}

func AddCatalogRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/products", d.Auth.OptionalAuth(d.Catalog.GetProducts))
	router.GET("/api/products/:id", d.Auth.OptionalAuth(d.Catalog.GetProduct))

	router.GET("/api/farmer/products", d.Auth.RequireRole(models.RoleFarmer, d.Catalog.GetFarmerProducts))
	router.POST("/api/farmer/products", d.Auth.RequireRole(models.RoleFarmer, d.Catalog.CreateProduct))
	router.PUT("/api/farmer/products/:id", d.Auth.RequireRole(models.RoleFarmer, d.Catalog.UpdateProduct))
	router.DELETE("/api/farmer/products/:id", d.Auth.RequireRole(models.RoleFarmer, d.Catalog.DeleteProduct))
}

func AddCartRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/cart", d.Auth.Authenticate(d.Cart.GetCart))
	router.POST("/api/cart", d.Auth.Authenticate(d.Cart.AddToCart))
	router.PATCH("/api/cart", d.Auth.Authenticate(d.Cart.UpdateCart))
	router.DELETE("/api/cart", d.Auth.Authenticate(d.Cart.RemoveFromCart))
}

func AddOrderRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/orders", d.RateLimiter.Limit(d.Auth.Authenticate(d.Orders.PlaceOrder)))
	router.GET("/api/orders", d.Auth.Authenticate(d.Orders.GetOrders))
	router.GET("/api/orders/:id/receipt", d.Auth.Authenticate(d.Orders.PrintReceipt))
}

func AddImageRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/images/:kind", d.RateLimiter.Limit(d.Auth.Authenticate(filemgr.UploadImage)))
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/product/*filepath", http.Dir("static/product"))
	router.ServeFiles("/static/profile/*filepath", http.Dir("static/profile"))
}
