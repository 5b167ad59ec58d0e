package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"realtor-site/internal/domain"
	"realtor-site/internal/repository"
	"realtor-site/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PropertyAdmin interface {
	List(ctx context.Context, filter repository.PropertiesFilter, limit, offset int) ([]*domain.Property, int, error)
	Get(ctx context.Context, id string) (*domain.Property, error)
	Create(ctx context.Context, in service.PropertyInput) (*domain.Property, error)
	Update(ctx context.Context, id string, in service.PropertyInput) (*domain.Property, error)
	Archive(ctx context.Context, id string) error
	ExportAll(ctx context.Context) ([]byte, error)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminPropertiesHandler back-office CRUD over the CRM store.
type AdminPropertiesHandler struct {
	admin  PropertyAdmin
	now    func() time.Time
	logger *zap.Logger
}

func NewAdminPropertiesHandler(admin PropertyAdmin, logger *zap.Logger) *AdminPropertiesHandler {
	return &AdminPropertiesHandler{admin: admin, now: time.Now, logger: logger}
}

// List GET /api/admin/properties?status=&search=&includeArchived=&limit=&offset=
func (h *AdminPropertiesHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := page(r, 50, 200)
	query := r.URL.Query()
	includeArchived, _ := strconv.ParseBool(query.Get("includeArchived"))
	filter := repository.PropertiesFilter{
		Status:          domain.PropertyStatus(strings.TrimSpace(query.Get("status"))),
		Search:          strings.TrimSpace(query.Get("search")),
		IncludeArchived: includeArchived,
	}
	props, total, err := h.admin.List(r.Context(), filter, limit, offset)
	if err != nil {
		writeServiceError(w, h.logger, "ListProperties", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(NewPage(props, total, limit, offset)))
}

func (h *AdminPropertiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.admin.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, "GetProperty", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *AdminPropertiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.PropertyInput
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := h.admin.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, h.logger, "CreateProperty", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(p))
}

func (h *AdminPropertiesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.PropertyInput
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := h.admin.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, h.logger, "UpdateProperty", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

// Archive DELETE /api/admin/properties/{id}; rows are never hard-deleted.
func (h *AdminPropertiesHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Archive(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.logger, "ArchiveProperty", err)
		return
	}
	writeJSON(w, http.StatusOK, Done("Property archived"))
}

// Export GET /api/admin/properties/export
func (h *AdminPropertiesHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.admin.ExportAll(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "ExportProperties", err)
		return
	}
	filename := fmt.Sprintf("properties-%s.xlsx", h.now().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
