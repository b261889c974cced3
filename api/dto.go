/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupled from the domain
  types. Quantities cross the wire as float64 for client convenience;
  internally everything stays decimal.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearthside/bakery-engine/deduction"
	"github.com/hearthside/bakery-engine/inventory"
	"github.com/hearthside/bakery-engine/recipe"
)

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// INVENTORY
// =============================================================================

type InventoryItemDTO struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Threshold float64 `json:"threshold"`
	LowStock  bool    `json:"low_stock"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

func toInventoryItemDTO(item inventory.InventoryItem) InventoryItemDTO {
	return InventoryItemDTO{
		Name:      string(item.Name),
		Quantity:  item.Quantity.InexactFloat64(),
		Unit:      string(item.Unit),
		Threshold: item.Threshold.InexactFloat64(),
		LowStock:  item.LowStock(),
		UpdatedAt: item.UpdatedAt.Format(time.RFC3339),
	}
}

type HistoryEntryDTO struct {
	ID               string  `json:"id"`
	Action           string  `json:"action"`
	PreviousQuantity float64 `json:"previous_quantity"`
	NewQuantity      float64 `json:"new_quantity"`
	ChangeAmount     float64 `json:"change_amount"`
	Note             string  `json:"note,omitempty"`
	PerformedBy      string  `json:"performed_by,omitempty"`
	Timestamp        string  `json:"timestamp"`
}

func toHistoryEntryDTO(e inventory.HistoryEntry) HistoryEntryDTO {
	return HistoryEntryDTO{
		ID:               e.ID,
		Action:           string(e.Action),
		PreviousQuantity: e.PreviousQuantity.InexactFloat64(),
		NewQuantity:      e.NewQuantity.InexactFloat64(),
		ChangeAmount:     e.ChangeAmount.InexactFloat64(),
		Note:             e.Note,
		PerformedBy:      e.PerformedBy,
		Timestamp:        e.At.Format(time.RFC3339),
	}
}

type UsageSummaryDTO struct {
	Ingredient     string  `json:"ingredient"`
	Unit           string  `json:"unit"`
	TotalDeducted  float64 `json:"total_deducted"`
	TotalRestocked float64 `json:"total_restocked"`
	Deductions     int     `json:"deductions"`
	Restocks       int     `json:"restocks"`
	Since          string  `json:"since,omitempty"`
}

type RestockRequest struct {
	Amount      float64 `json:"amount"`
	Note        string  `json:"note"`
	PerformedBy string  `json:"performed_by"`
}

// =============================================================================
// RECIPES
// =============================================================================

type RecipeIngredientDTO struct {
	IngredientName   string  `json:"ingredient_name"`
	Quantity         float64 `json:"quantity"`
	Unit             string  `json:"unit"`
	ConversionFactor float64 `json:"conversion_factor"`
}

type RecipeDTO struct {
	ProductName string                `json:"product_name"`
	Ingredients []RecipeIngredientDTO `json:"ingredients"`
}

func toRecipeDTO(r recipe.Recipe) RecipeDTO {
	dto := RecipeDTO{
		ProductName: string(r.Product),
		Ingredients: make([]RecipeIngredientDTO, len(r.Ingredients)),
	}
	for i, ri := range r.Ingredients {
		dto.Ingredients[i] = RecipeIngredientDTO{
			IngredientName:   string(ri.Ingredient),
			Quantity:         ri.Quantity.InexactFloat64(),
			Unit:             string(ri.Unit),
			ConversionFactor: ri.Factor.InexactFloat64(),
		}
	}
	return dto
}

// =============================================================================
// ORDERS
// =============================================================================

type OrderItemDTO struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

func toOrderItems(items []OrderItemDTO) []deduction.OrderLineItem {
	out := make([]deduction.OrderLineItem, len(items))
	for i, it := range items {
		out[i] = deduction.OrderLineItem{
			Product:  recipe.ProductName(it.ProductName),
			Quantity: it.Quantity,
		}
	}
	return out
}

type CheckAvailabilityRequest struct {
	Items []OrderItemDTO `json:"items"`
}

type CheckAvailabilityResponse struct {
	Available         bool     `json:"available"`
	InsufficientItems []string `json:"insufficient_items"`
}

type DeductRequest struct {
	Items       []OrderItemDTO `json:"items"`
	OrderID     string         `json:"order_id"`
	PerformedBy string         `json:"performed_by"`
}

type DeductionRecordDTO struct {
	Ingredient       string  `json:"ingredient"`
	Amount           float64 `json:"amount"`
	Unit             string  `json:"unit"`
	PreviousQuantity float64 `json:"previous_quantity"`
	NewQuantity      float64 `json:"new_quantity"`
	Product          string  `json:"product"`
	ProductQuantity  int     `json:"product_quantity"`
}

type DeductionSummaryDTO struct {
	TotalIngredients int `json:"total_ingredients"`
	TotalErrors      int `json:"total_errors"`
	TotalWarnings    int `json:"total_warnings"`
}

type DeductResponse struct {
	Success    bool                 `json:"success"`
	Deductions []DeductionRecordDTO `json:"deduction_results"`
	Errors     []string             `json:"errors"`
	Warnings   []string             `json:"warnings"`
	Summary    DeductionSummaryDTO  `json:"summary"`
}

func toDeductResponse(res deduction.DeductionResult) DeductResponse {
	out := DeductResponse{
		Success:    res.Success,
		Deductions: make([]DeductionRecordDTO, len(res.Deductions)),
		Errors:     emptyIfNil(res.Errors),
		Warnings:   emptyIfNil(res.Warnings),
		Summary: DeductionSummaryDTO{
			TotalIngredients: res.Summary.TotalIngredients,
			TotalErrors:      res.Summary.TotalErrors,
			TotalWarnings:    res.Summary.TotalWarnings,
		},
	}
	for i, d := range res.Deductions {
		out.Deductions[i] = DeductionRecordDTO{
			Ingredient:       string(d.Ingredient),
			Amount:           d.Amount.InexactFloat64(),
			Unit:             string(d.Unit),
			PreviousQuantity: d.PreviousQuantity.InexactFloat64(),
			NewQuantity:      d.NewQuantity.InexactFloat64(),
			Product:          string(d.Product),
			ProductQuantity:  d.ProductQuantity,
		}
	}
	return out
}

// emptyIfNil keeps errors/warnings as [] in JSON rather than null.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func fromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
