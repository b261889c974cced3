/*
handlers.go - HTTP handlers for the bakery inventory engine

ENDPOINTS:
  Inventory:
    GET  /api/inventory                  List items with low-stock flags
    GET  /api/inventory/{name}           One item
    GET  /api/inventory/{name}/history   Audit trail, oldest first
    GET  /api/inventory/{name}/usage     Usage summary (?since=RFC3339)
    POST /api/inventory/{name}/restock   Add stock

  Recipes:
    GET  /api/recipes                    Full catalog
    GET  /api/recipes/{product}          One recipe

  Orders:
    POST /api/orders/check               Dry-run availability check
    POST /api/orders/deduct              Deduct for a completed order

  Admin:
    POST /api/admin/seed                 Load default catalog stock (dev)

ERROR HANDLING:
  - 400: invalid body or parameters
  - 404: unknown ingredient or product
  - 409: rejected restock (duplicate seed, invalid amount)
  - 500: infrastructure faults
  Per-ingredient deduction problems are NOT HTTP errors - they come back
  inside the deduction result, as the order workflow expects.

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hearthside/bakery-engine/deduction"
	"github.com/hearthside/bakery-engine/inventory"
	"github.com/hearthside/bakery-engine/recipe"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Ledger  *inventory.Ledger
	Catalog recipe.Catalog
	Engine  *deduction.Engine
}

// NewHandler wires a handler over the given ledger and catalog.
func NewHandler(ledger *inventory.Ledger, catalog recipe.Catalog) *Handler {
	return &Handler{
		Ledger:  ledger,
		Catalog: catalog,
		Engine:  deduction.NewEngine(catalog, ledger),
	}
}

// =============================================================================
// INVENTORY HANDLERS
// =============================================================================

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.Ledger.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list inventory", err)
		return
	}

	dtos := make([]InventoryItemDTO, len(items))
	for i, item := range items {
		dtos[i] = toInventoryItemDTO(item)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetInventoryItem(w http.ResponseWriter, r *http.Request) {
	name := inventory.IngredientName(chi.URLParam(r, "name"))

	item, err := h.Ledger.Get(r.Context(), name)
	if inventory.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Ingredient not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get ingredient", err)
		return
	}

	writeJSON(w, http.StatusOK, toInventoryItemDTO(item))
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	name := inventory.IngredientName(chi.URLParam(r, "name"))

	entries, err := h.Ledger.History(r.Context(), name)
	if inventory.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Ingredient not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get history", err)
		return
	}

	dtos := make([]HistoryEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toHistoryEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetUsage(w http.ResponseWriter, r *http.Request) {
	name := inventory.IngredientName(chi.URLParam(r, "name"))

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid since parameter (use RFC3339)", err)
			return
		}
		since = parsed
	}

	summary, err := h.Ledger.Usage(r.Context(), name, since)
	if inventory.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Ingredient not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute usage", err)
		return
	}

	dto := UsageSummaryDTO{
		Ingredient:     string(summary.Ingredient),
		Unit:           string(summary.Unit),
		TotalDeducted:  summary.TotalDeducted.InexactFloat64(),
		TotalRestocked: summary.TotalRestocked.InexactFloat64(),
		Deductions:     summary.Deductions,
		Restocks:       summary.Restocks,
	}
	if !since.IsZero() {
		dto.Since = since.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) Restock(w http.ResponseWriter, r *http.Request) {
	name := inventory.IngredientName(chi.URLParam(r, "name"))

	var req RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	upd, err := h.Ledger.Restock(r.Context(), name, fromFloat(req.Amount), req.Note, req.PerformedBy)
	switch {
	case inventory.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Ingredient not found", err)
		return
	case errors.Is(err, inventory.ErrInvalidDelta):
		writeError(w, http.StatusBadRequest, "Restock amount must be positive", err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to restock", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"item":  toInventoryItemDTO(upd.Item),
		"entry": toHistoryEntryDTO(upd.Entry),
	})
}

// =============================================================================
// RECIPE HANDLERS
// =============================================================================

func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes := h.Catalog.List()
	dtos := make([]RecipeDTO, len(recipes))
	for i, rec := range recipes {
		dtos[i] = toRecipeDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	product := recipe.ProductName(chi.URLParam(r, "product"))

	rec, err := h.Catalog.Lookup(product)
	if errors.Is(err, recipe.ErrRecipeNotFound) {
		writeError(w, http.StatusNotFound, "Recipe not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up recipe", err)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeDTO(rec))
}

// =============================================================================
// ORDER HANDLERS
// =============================================================================

func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req CheckAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	avail, err := h.Engine.CheckAvailability(r.Context(), toOrderItems(req.Items))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Availability check failed", err)
		return
	}

	writeJSON(w, http.StatusOK, CheckAvailabilityResponse{
		Available:         avail.Available,
		InsufficientItems: emptyIfNil(avail.InsufficientItems),
	})
}

func (h *Handler) Deduct(w http.ResponseWriter, r *http.Request) {
	var req DeductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "order_id is required", nil)
		return
	}

	result, err := h.Engine.Deduct(r.Context(), toOrderItems(req.Items), req.OrderID, req.PerformedBy)
	if err != nil {
		// Infrastructure fault. The result still carries the single fatal
		// error entry, but the call as a whole failed.
		writeError(w, http.StatusInternalServerError, "Deduction failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toDeductResponse(result))
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// Seed loads the default stock for the built-in catalog. Items that
// already exist are skipped. Dev/demo only.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	var created, skipped int
	for _, item := range recipe.DefaultStock() {
		err := h.Ledger.Seed(r.Context(), item)
		switch {
		case errors.Is(err, inventory.ErrItemExists):
			skipped++
		case err != nil:
			writeError(w, http.StatusInternalServerError, "Failed to seed inventory", err)
			return
		default:
			created++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"created": created,
		"skipped": skipped,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
