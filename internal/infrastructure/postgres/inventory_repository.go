package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/atrezzo-rental/almacen-api/internal/domain"
	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de sesiones de conteo. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Create persiste una nueva sesión.
func (r *InventoryRepo) Create(inv *entity.Inventory) error {
	query := `
		INSERT INTO inventories (id, name, status, created_by, started_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.Name, inv.Status, inv.CreatedBy, inv.StartedAt)
	if err != nil {
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión por ID.
func (r *InventoryRepo) GetByID(id string) (*entity.Inventory, error) {
	query := `
		SELECT id, name, status, created_by, COALESCE(completed_by, ''), started_at, completed_at
		FROM inventories WHERE id = $1`
	var inv entity.Inventory
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.Name, &inv.Status, &inv.CreatedBy, &inv.CompletedBy,
		&inv.StartedAt, &inv.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &inv, nil
}

// GetForUpdate obtiene la sesión bloqueando su fila. Solo tiene sentido
// dentro de una transacción.
func (r *InventoryRepo) GetForUpdate(id string) (*entity.Inventory, error) {
	query := `
		SELECT id, name, status, created_by, COALESCE(completed_by, ''), started_at, completed_at
		FROM inventories WHERE id = $1
		FOR UPDATE`
	var inv entity.Inventory
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.Name, &inv.Status, &inv.CreatedBy, &inv.CompletedBy,
		&inv.StartedAt, &inv.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory for update: %w", err)
	}
	return &inv, nil
}

// Update persiste el estado de la sesión.
func (r *InventoryRepo) Update(inv *entity.Inventory) error {
	query := `
		UPDATE inventories SET status = $2, completed_by = NULLIF($3, ''), completed_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.Status, inv.CompletedBy, inv.CompletedAt)
	if err != nil {
		return fmt.Errorf("update inventory: %w", err)
	}
	return nil
}

// List lista sesiones, más reciente primero.
func (r *InventoryRepo) List(limit, offset int) ([]*entity.Inventory, error) {
	query := `
		SELECT id, name, status, created_by, COALESCE(completed_by, ''), started_at, completed_at
		FROM inventories ORDER BY started_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		var inv entity.Inventory
		if err := rows.Scan(&inv.ID, &inv.Name, &inv.Status, &inv.CreatedBy,
			&inv.CompletedBy, &inv.StartedAt, &inv.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// CreateRecord inserta un renglón de conteo (foto del sistema).
func (r *InventoryRepo) CreateRecord(rec *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (id, inventory_id, item_id, system_quantity, status)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.InventoryID, rec.ItemID, rec.SystemQuantity, rec.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory record: %w", err)
	}
	return nil
}

// GetRecord obtiene el renglón de un artículo dentro de una sesión.
func (r *InventoryRepo) GetRecord(inventoryID, itemID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT id, inventory_id, item_id, system_quantity, actual_quantity, difference,
			status, comment, COALESCE(checked_by, ''), checked_at
		FROM inventory_records WHERE inventory_id = $1 AND item_id = $2`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(context.Background(), query, inventoryID, itemID).Scan(
		&rec.ID, &rec.InventoryID, &rec.ItemID, &rec.SystemQuantity,
		&rec.ActualQuantity, &rec.Difference, &rec.Status, &rec.Comment,
		&rec.CheckedBy, &rec.CheckedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// UpdateRecord persiste el conteo o el cambio de estado de un renglón.
func (r *InventoryRepo) UpdateRecord(rec *entity.InventoryRecord) error {
	query := `
		UPDATE inventory_records SET actual_quantity = $3, difference = $4, status = $5,
			comment = $6, checked_by = NULLIF($7, ''), checked_at = $8
		WHERE inventory_id = $1 AND item_id = $2`
	_, err := r.q.Exec(context.Background(), query,
		rec.InventoryID, rec.ItemID, rec.ActualQuantity, rec.Difference,
		rec.Status, rec.Comment, rec.CheckedBy, rec.CheckedAt)
	if err != nil {
		return fmt.Errorf("update inventory record: %w", err)
	}
	return nil
}

// ListRecords renglones de una sesión.
func (r *InventoryRepo) ListRecords(inventoryID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT id, inventory_id, item_id, system_quantity, actual_quantity, difference,
			status, comment, COALESCE(checked_by, ''), checked_at
		FROM inventory_records WHERE inventory_id = $1 ORDER BY item_id`
	rows, err := r.q.Query(context.Background(), query, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.InventoryID, &rec.ItemID, &rec.SystemQuantity,
			&rec.ActualQuantity, &rec.Difference, &rec.Status, &rec.Comment,
			&rec.CheckedBy, &rec.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// ListRecordRows renglones con datos del artículo unidos (hoja de conteo).
func (r *InventoryRepo) ListRecordRows(inventoryID string) ([]*repository.CountSheetRow, error) {
	query := `
		SELECT ir.item_id, COALESCE(i.sku, ''), i.name, i.unit,
			ir.system_quantity, ir.actual_quantity, ir.difference, ir.status, ir.comment
		FROM inventory_records ir
		JOIN items i ON i.id = ir.item_id
		WHERE ir.inventory_id = $1
		ORDER BY i.name`
	rows, err := r.q.Query(context.Background(), query, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("list count sheet rows: %w", err)
	}
	defer rows.Close()
	var list []*repository.CountSheetRow
	for rows.Next() {
		var row repository.CountSheetRow
		if err := rows.Scan(&row.ItemID, &row.SKU, &row.Name, &row.Unit,
			&row.SystemQuantity, &row.ActualQuantity, &row.Difference,
			&row.Status, &row.Comment); err != nil {
			return nil, fmt.Errorf("scan count sheet row: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

// CountPendingRecords renglones aún sin contar de una sesión.
func (r *InventoryRepo) CountPendingRecords(inventoryID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM inventory_records WHERE inventory_id = $1 AND status = $2`,
		inventoryID, entity.RecordStatusPending).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending records: %w", err)
	}
	return count, nil
}
