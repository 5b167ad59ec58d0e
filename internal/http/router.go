package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Router chi mux with the shared middleware stack installed.
type Router struct {
	mux    *chi.Mux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(RequestLogger(logger))
	mux.Use(Recoverer(logger))
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return &Router{mux: mux, logger: logger}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) RegisterHealthRoutes() {
	r.mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func (r *Router) RegisterPropertyRoutes(h *PropertiesHandler) {
	r.mux.Get("/api/properties", h.List)
	r.mux.Get("/api/properties/{id}", h.Get)
}

func (r *Router) RegisterSearchRoutes(h *SearchHandler) {
	r.mux.Get("/api/search/addresses", h.Addresses)
	r.mux.Get("/api/search/suggestions", h.Suggestions)
}

func (r *Router) RegisterMLSLookupRoutes(h *MLSLookupHandler) {
	r.mux.Get("/api/mls-lookup", h.Lookup)
}

func (r *Router) RegisterNotificationRoutes(h *NotificationHandler) {
	r.mux.Post("/api/sold-notification", h.Sold)
}

func (r *Router) RegisterLeadRoutes(h *LeadHandler) {
	r.mux.Post("/api/contact", h.Contact)
	r.mux.Post("/api/bookings", h.Booking)
}

func (r *Router) RegisterBlogRoutes(h *BlogHandler) {
	r.mux.Get("/api/blog", h.List)
	r.mux.Get("/api/blog/{slug}", h.Get)
}

// AdminRoutes handlers mounted under /api/admin behind RequireAdmin.
type AdminRoutes struct {
	Properties *AdminPropertiesHandler
	Leads      *LeadHandler
	Blog       *BlogHandler
}

func (r *Router) RegisterAdminRoutes(jwtSecret string, a AdminRoutes) {
	r.mux.Route("/api/admin", func(ar chi.Router) {
		ar.Use(RequireAdmin(jwtSecret, r.logger))

		ar.Get("/properties", a.Properties.List)
		ar.Post("/properties", a.Properties.Create)
		ar.Get("/properties/export", a.Properties.Export)
		ar.Get("/properties/{id}", a.Properties.Get)
		ar.Put("/properties/{id}", a.Properties.Update)
		ar.Delete("/properties/{id}", a.Properties.Archive)

		ar.Get("/leads", a.Leads.List)

		ar.Post("/blog", a.Blog.Create)
		ar.Put("/blog/{id}", a.Blog.Update)
		ar.Delete("/blog/{id}", a.Blog.Delete)
	})
}
