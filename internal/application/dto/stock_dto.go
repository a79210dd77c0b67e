package dto

// StockChangeRequest body para POST /api/sweets/{id}/purchase y /restock.
type StockChangeRequest struct {
	Quantity int64 `json:"quantity" validate:"required,min=1"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un dulce bajo el umbral de stock.
type ReplenishmentSuggestionDTO struct {
	SweetID           string `json:"sweet_id"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	CurrentStock      int64  `json:"current_stock"`
	Threshold         int64  `json:"threshold"`
	IdealStock        int64  `json:"ideal_stock"`         // Threshold * 1.5
	SuggestedOrderQty int64  `json:"suggested_order_qty"` // IdealStock - CurrentStock
	Priority          int    `json:"priority"`            // 1 = más urgente
}
