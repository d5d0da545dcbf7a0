package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"agrimart/auth"
	"agrimart/cart"
	"agrimart/catalog"
	"agrimart/db"
	"agrimart/globals"
	"agrimart/middleware"
	"agrimart/orders"
	"agrimart/ratelim"
	"agrimart/rdx"
	"agrimart/routes"
	"agrimart/session"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// corsOrigins reads the comma-separated CORS_ORIGINS list. The session
// cookie rides on credentialed requests, and browsers refuse a wildcard
// origin when credentials are included, so the allowed origins must be
// spelled out.
func corsOrigins() []string {
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var out []string
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []string{"http://localhost:3000"}
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	client, err := db.Connect(context.Background())
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	collections := db.New(client)
	if err := db.EnsureIndexes(context.Background(), collections); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	cache := rdx.Connect()

	// wire services: session resolver, catalog, cart, auth, orders
	resolver := session.NewJWTResolver(globals.JwtSecret)
	authMiddleware := middleware.NewAuth(resolver)
	rateLimiter := ratelim.NewRateLimiter()

	userStore := auth.NewMongoUserStore(collections.Users)
	productStore := catalog.NewMongoStore(collections.Products)
	cartStore := cart.NewMongoStore(collections.Cart)
	orderStore := orders.NewMongoStore(collections.Orders)

	catalogSvc := catalog.NewService(productStore, userStore, cache)
	cartSvc := cart.NewService(cartStore, productStore, userStore)
	orderSvc := orders.NewService(orderStore, cartSvc)

	router := httprouter.New()
	router.GET("/health", Index)
	routes.RoutesWrapper(router, routes.Deps{
		Auth:        authMiddleware,
		RateLimiter: rateLimiter,
		Catalog:     catalog.NewHandler(catalogSvc),
		Cart:        cart.NewHandler(cartSvc),
		Account:     auth.NewHandler(userStore, resolver, cache),
		Orders:      orders.NewHandler(orderSvc, userStore),
	})

	// middleware chain: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	if err := client.Disconnect(ctx); err != nil {
		log.Printf("Mongo disconnect error: %v", err)
	}

	log.Println("Server stopped cleanly")
}
