package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/atrezzo-rental/almacen-api/internal/domain"
	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, barcode, sku, description, unit, min_quantity, max_quantity,
		cost, status, current_quantity, reserved_quantity, last_operation_at, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo artículo. Las cantidades inician en 0.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (id, name, barcode, sku, description, unit, min_quantity, max_quantity,
			cost, status, current_quantity, reserved_quantity, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Barcode, item.SKU, item.Description, item.Unit,
		item.MinQuantity, item.MaxQuantity, item.Cost, item.Status,
		item.CurrentQuantity, item.ReservedQuantity, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.getOne(`SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE)
// para serializar las escrituras concurrentes sobre el mismo artículo.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return r.getOne(`SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

// GetByBarcode obtiene un artículo por código de barras.
func (r *ItemRepo) GetByBarcode(barcode string) (*entity.Item, error) {
	return r.getOne(`SELECT `+itemColumns+` FROM items WHERE barcode = $1`, barcode)
}

// GetBySKU obtiene un artículo por SKU.
func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	return r.getOne(`SELECT `+itemColumns+` FROM items WHERE sku = $1`, sku)
}

func (r *ItemRepo) getOne(query string, arg any) (*entity.Item, error) {
	row := r.q.QueryRow(context.Background(), query, arg)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Update actualiza campos descriptivos y umbrales. No toca cantidades:
// esas se escriben solo vía UpdateQuantities desde el libro.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, barcode = NULLIF($3, ''), sku = NULLIF($4, ''), description = $5,
			unit = $6, min_quantity = $7, max_quantity = $8, cost = $9, status = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Barcode, item.SKU, item.Description, item.Unit,
		item.MinQuantity, item.MaxQuantity, item.Cost, item.Status, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateQuantities escribe las cantidades cacheadas y last_operation_at.
// Se llama dentro de la misma transacción que inserta el asiento del libro.
func (r *ItemRepo) UpdateQuantities(id string, current, reserved int64, lastOperationAt time.Time) error {
	query := `
		UPDATE items SET current_quantity = $2, reserved_quantity = $3,
			last_operation_at = $4, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, current, reserved, lastOperationAt)
	if err != nil {
		return fmt.Errorf("update item quantities: %w", err)
	}
	return nil
}

// Search busca artículos por texto, categorías (OR) y estado.
// Orden estable (created_at DESC, id) para paginación.
func (r *ItemRepo) Search(f repository.ItemFilter) ([]*entity.Item, error) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Text != "" {
		args = append(args, "%"+f.Text+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE $%d OR barcode ILIKE $%d OR sku ILIKE $%d OR description ILIKE $%d)", n, n, n, n))
	}
	if len(f.CategoryIDs) > 0 {
		args = append(args, f.CategoryIDs)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM item_categories ic WHERE ic.item_id = items.id AND ic.category_id = ANY($%d))", len(args)))
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// LowStock artículos activos con current_quantity <= min_quantity.
func (r *ItemRepo) LowStock() ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE status = $1 AND current_quantity <= min_quantity
		ORDER BY current_quantity - min_quantity, name`
	rows, err := r.q.Query(context.Background(), query, entity.ItemStatusActive)
	if err != nil {
		return nil, fmt.Errorf("low stock items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// SetCategories reemplaza la membresía completa del artículo
// (delete-then-insert; llamar dentro de una transacción).
func (r *ItemRepo) SetCategories(itemID string, categoryIDs []string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM item_categories WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("clear item categories: %w", err)
	}
	for _, catID := range categoryIDs {
		_, err := r.q.Exec(ctx,
			`INSERT INTO item_categories (item_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			itemID, catID,
		)
		if err != nil {
			return fmt.Errorf("insert item category: %w", err)
		}
	}
	return nil
}

// CategoryIDs devuelve los IDs de categoría del artículo.
func (r *ItemRepo) CategoryIDs(itemID string) ([]string, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT category_id FROM item_categories WHERE item_id = $1 ORDER BY category_id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("item categories: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var (
		i            entity.Item
		barcode, sku *string
	)
	err := row.Scan(
		&i.ID, &i.Name, &barcode, &sku, &i.Description, &i.Unit,
		&i.MinQuantity, &i.MaxQuantity, &i.Cost, &i.Status,
		&i.CurrentQuantity, &i.ReservedQuantity, &i.LastOperationAt, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if barcode != nil {
		i.Barcode = *barcode
	}
	if sku != nil {
		i.SKU = *sku
	}
	return &i, nil
}

func scanItems(rows pgx.Rows) ([]*entity.Item, error) {
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}
