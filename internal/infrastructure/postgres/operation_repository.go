package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

// OperationRepo implementación de OperationRepository sobre PostgreSQL.
// Append-only: este adaptador no expone UPDATE ni DELETE.
type OperationRepo struct {
	q Querier
}

// NewOperationRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewOperationRepository(q Querier) *OperationRepo {
	return &OperationRepo{q: q}
}

// Create inserta un asiento del libro.
func (r *OperationRepo) Create(op *entity.Operation) error {
	query := `
		INSERT INTO operations (id, item_id, operator_id, type, quantity_before, quantity_after,
			quantity_change, reserved_before, reserved_after, reason, comment, document_ref, origin_ip, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		op.ID, op.ItemID, op.OperatorID, op.Type,
		op.QuantityBefore, op.QuantityAfter, op.QuantityChange,
		op.ReservedBefore, op.ReservedAfter,
		op.Reason, op.Comment, op.DocumentRef, op.OriginIP, op.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// ListByItem historial de un artículo, más reciente primero.
func (r *OperationRepo) ListByItem(itemID string, limit, offset int) ([]*entity.Operation, error) {
	query := `
		SELECT id, item_id, COALESCE(operator_id, ''), type, quantity_before, quantity_after,
			quantity_change, reserved_before, reserved_after, reason, comment, document_ref, origin_ip, created_at
		FROM operations
		WHERE item_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Operation
	for rows.Next() {
		var op entity.Operation
		if err := rows.Scan(
			&op.ID, &op.ItemID, &op.OperatorID, &op.Type,
			&op.QuantityBefore, &op.QuantityAfter, &op.QuantityChange,
			&op.ReservedBefore, &op.ReservedAfter,
			&op.Reason, &op.Comment, &op.DocumentRef, &op.OriginIP, &op.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		list = append(list, &op)
	}
	return list, rows.Err()
}

// SumChangesByItem suma de quantity_change de todo el historial del artículo.
func (r *OperationRepo) SumChangesByItem(itemID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity_change), 0) FROM operations WHERE item_id = $1`, itemID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum operation changes: %w", err)
	}
	return sum, nil
}

// CountSince número de asientos desde el instante dado.
func (r *OperationRepo) CountSince(since time.Time) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM operations WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count operations: %w", err)
	}
	return count, nil
}
