package dto

import "time"

// ApplyOperationRequest body para POST /api/operations.
// QuantityChange lleva signo según el tipo: add/reserve positivo,
// remove/unreserve negativo, adjust/transfer cualquiera distinto de cero.
type ApplyOperationRequest struct {
	ItemID         string `json:"item_id"`
	Type           string `json:"type"`
	QuantityChange int64  `json:"quantity_change"`
	Reason         string `json:"reason"`
	Comment        string `json:"comment,omitempty"`
	DocumentRef    string `json:"document_ref,omitempty"`
}

// OperationResponse asiento del libro de operaciones.
type OperationResponse struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"item_id"`
	OperatorID     string    `json:"operator_id,omitempty"`
	Type           string    `json:"type"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityAfter  int64     `json:"quantity_after"`
	QuantityChange int64     `json:"quantity_change"`
	ReservedBefore int64     `json:"reserved_before"`
	ReservedAfter  int64     `json:"reserved_after"`
	Reason         string    `json:"reason"`
	Comment        string    `json:"comment,omitempty"`
	DocumentRef    string    `json:"document_ref,omitempty"`
	OriginIP       string    `json:"origin_ip,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// OperationListResponse historial paginado de un artículo.
type OperationListResponse struct {
	Operations []OperationResponse `json:"operations"`
	Page       PageResponse        `json:"page"`
}

// AuditResponse resultado de la auditoría de derivabilidad del libro.
// Una discrepancia se reporta, nunca se corrige en automático.
type AuditResponse struct {
	ItemID           string `json:"item_id"`
	RecordedQuantity int64  `json:"recorded_quantity"`
	DerivedQuantity  int64  `json:"derived_quantity"`
	Match            bool   `json:"match"`
}
