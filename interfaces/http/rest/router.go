package rest

import (
	"encoding/json"
	"net/http"

	"clipshelf/application/projections"
	"clipshelf/application/services"
	"clipshelf/infrastructure/config"
	"clipshelf/interfaces/http/rest/handlers"
	"clipshelf/interfaces/http/rest/middleware"
	"clipshelf/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	lists     *services.ListService
	items     *services.ItemService
	rebuilder *projections.Rebuilder
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	lists *services.ListService,
	items *services.ItemService,
	rebuilder *projections.Rebuilder,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:       cfg,
		lists:     lists,
		items:     items,
		rebuilder: rebuilder,
		metrics:   metrics,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger, rt.metrics))

	// The clipper extension calls the API from arbitrary page origins.
	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)

	if rt.cfg.EnableMetrics {
		router.Method("GET", "/metrics", promhttp.HandlerFor(
			rt.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		listHandler := handlers.NewListHandler(rt.lists, rt.items, rt.logger)
		r.Route("/lists", func(r chi.Router) {
			r.Post("/", listHandler.CreateList)
			r.Get("/", listHandler.ListLists)
			r.Get("/{listID}", listHandler.GetList)
			r.Put("/{listID}", listHandler.UpdateList)
			r.Delete("/{listID}", listHandler.DeleteList)

			r.Get("/{listID}/items", listHandler.GetListItems)
			r.Post("/{listID}/items", listHandler.LinkItem)
			r.Delete("/{listID}/items/{itemID}", listHandler.UnlinkItem)
			r.Put("/{listID}/items/{itemID}/position", listHandler.ReorderItem)
		})

		itemHandler := handlers.NewItemHandler(rt.items, rt.logger)
		r.Route("/items", func(r chi.Router) {
			r.Post("/", itemHandler.CreateItem)
			r.Get("/", itemHandler.ListItems)
			r.Get("/{itemID}", itemHandler.GetItem)
			r.Put("/{itemID}", itemHandler.UpdateItem)
			r.Delete("/{itemID}", itemHandler.DeleteItem)
			r.Get("/{itemID}/lists", itemHandler.GetItemLists)
		})

		r.Get("/search", itemHandler.Search)

		r.Post("/admin/rebuild", rt.rebuildProjections)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// rebuildProjections handles POST /admin/rebuild, wiping the read models and
// refolding them from the event log.
func (rt *Router) rebuildProjections(w http.ResponseWriter, req *http.Request) {
	report, err := rt.rebuilder.Rebuild(req.Context())
	if err != nil {
		rt.logger.Error("projection rebuild failed", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"rebuild failed"}`))
		return
	}
	rt.metrics.RebuildsTotal.Inc()
	rt.metrics.RebuildedEvents.Add(float64(report.EventsReplayed))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		rt.logger.Warn("failed to write rebuild report", zap.Error(err))
	}
}
