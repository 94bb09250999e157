package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/quinworks/pricematch/internal/catalog"
	"github.com/quinworks/pricematch/internal/workbook"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/import", h.importPricelist)
}

type itemResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
	Unit        string          `json:"unit,omitempty"`
	Category    string          `json:"category,omitempty"`
	Subcategory string          `json:"subcategory,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type listResponse struct {
	Items []itemResponse `json:"items"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := listResponse{Items: make([]itemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, itemResponse{
			ID:          item.ID,
			Description: item.Description,
			Rate:        item.Rate,
			Unit:        item.Unit,
			Category:    item.Category,
			Subcategory: item.Subcategory,
			CreatedAt:   item.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type importResponse struct {
	Imported int `json:"imported"`
}

// importPricelist stores an uploaded price list (xlsx or csv). With
// replace=true the upload becomes the new catalog.
func (h *Handler) importPricelist(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var params []catalog.ImportParams

	if strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		params, err = workbook.ReadPricelistCSV(file)
	} else {
		params, err = workbook.ReadPricelist(file)
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	replace := r.FormValue("replace") == "true"

	count, err := h.svc.Import(r.Context(), params, replace)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(importResponse{Imported: count}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
