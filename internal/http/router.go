package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/penzolll/umi-shop-digital/internal/metrics"
)

type RouterConfig struct {
	RequestTimeout time.Duration
}

// NewRouter wires the full HTTP surface: public catalog + auth routes,
// authenticated cart/order routes and the admin section.
func NewRouter(
	cfg RouterConfig,
	parser tokenParser,
	authHandler *AuthHandler,
	productHandler *ProductHandler,
	categoryHandler *CategoryHandler,
	cartHandler *CartHandler,
	orderHandler *OrderHandler,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Public routes
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Get("/products", productHandler.ListProducts)
	r.Get("/products/{id}", productHandler.GetProduct)
	r.Get("/categories", categoryHandler.ListCategories)
	r.Get("/categories/{id}", categoryHandler.GetCategory)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(parser))

		r.Get("/profile", authHandler.Profile)
		r.Put("/profile", authHandler.UpdateProfile)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/", cartHandler.AddItem)
			r.Put("/{id}", cartHandler.UpdateItem)
			r.Delete("/{id}", cartHandler.RemoveItem)
		})

		r.Post("/order", orderHandler.PlaceOrder)
		r.Get("/user/orders", orderHandler.ListUserOrders)
		r.Get("/user/orders/{id}", orderHandler.GetUserOrder)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(AdminOnly)

			r.Post("/products", productHandler.CreateProduct)
			r.Put("/products/{id}", productHandler.UpdateProduct)
			r.Delete("/products/{id}", productHandler.DeleteProduct)

			r.Post("/categories", categoryHandler.CreateCategory)
			r.Put("/categories/{id}", categoryHandler.UpdateCategory)
			r.Delete("/categories/{id}", categoryHandler.DeleteCategory)

			r.Get("/admin/orders", orderHandler.ListAllOrders)
			r.Put("/admin/orders/{id}", orderHandler.UpdateOrderStatus)
		})
	})

	return r
}
