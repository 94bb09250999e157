package match

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quinworks/pricematch/internal/catalog"
	"github.com/quinworks/pricematch/internal/embedding"
	"github.com/quinworks/pricematch/internal/match"
	"github.com/quinworks/pricematch/internal/workbook"
)

type Handler struct {
	engine     *match.Engine
	catalogSvc *catalog.Service
	taxonomy   bool
}

func NewHandler(engine *match.Engine, catalogSvc *catalog.Service, taxonomy bool) *Handler {
	return &Handler{
		engine:     engine,
		catalogSvc: catalogSvc,
		taxonomy:   taxonomy,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.match)
}

type resultDTO struct {
	QueryID            int             `json:"query_id"`
	CatalogID          int             `json:"catalog_id"`
	MatchedDescription string          `json:"matched_description"`
	Rate               decimal.Decimal `json:"rate"`
	ConfidenceScore    float64         `json:"confidence_score"`
	Method             match.Method    `json:"method"`
	Category           string          `json:"category,omitempty"`
	Subcategory        string          `json:"subcategory,omitempty"`
	Sheet              string          `json:"sheet"`
	Row                int             `json:"row"`
}

type matchResponse struct {
	RunID   uuid.UUID   `json:"run_id"`
	Matched int         `json:"matched"`
	Results []resultDTO `json:"results"`
}

// match prices an uploaded inquiry workbook against the stored catalog.
// The default response is JSON; ?format=xlsx streams the priced
// workbook back instead.
func (h *Handler) match(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	inquiry, err := workbook.ReadInquiry(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer inquiry.Close()

	records, err := h.catalogSvc.Records(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	results, err := h.engine.Run(r.Context(), records, inquiry.Records())
	if err != nil {
		respondRunError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		h.respondWorkbook(w, inquiry, results)
		return
	}

	resp := matchResponse{
		RunID:   uuid.New(),
		Matched: len(results),
		Results: make([]resultDTO, 0, len(results)),
	}

	for _, res := range results {
		dto := resultDTO{
			QueryID:            res.QueryID,
			CatalogID:          res.CatalogID,
			MatchedDescription: res.MatchedDescription,
			Rate:               res.Rate,
			ConfidenceScore:    res.Confidence,
			Method:             res.Method,
			Category:           res.Category,
			Subcategory:        res.Subcategory,
		}

		if dest, ok := res.Dest.(workbook.CellRef); ok {
			dto.Sheet = dest.Sheet
			dto.Row = dest.Row
		}

		resp.Results = append(resp.Results, dto)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) respondWorkbook(w http.ResponseWriter, inquiry *workbook.Inquiry, results []match.Result) {
	if err := inquiry.Apply(results, h.taxonomy); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := time.Now().Format("Output_03-04-PM_01-02-06.xlsx")

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := inquiry.WriteTo(w); err != nil {
		slog.Error("failed to stream workbook", "error", err)
	}
}

// respondRunError maps engine failures to status codes: unusable input
// is the client's problem, an unreachable or misbehaving embedding
// provider is a bad gateway.
func respondRunError(w http.ResponseWriter, err error) {
	var batchErr *embedding.BatchError

	switch {
	case errors.Is(err, match.ErrEmptyCatalog), errors.Is(err, match.ErrEmptyQuerySet):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &batchErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
