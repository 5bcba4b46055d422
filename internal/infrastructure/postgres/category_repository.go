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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una nueva categoría.
func (r *CategoryRepo) Create(c *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, parent_id, color, description, created_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.ParentID, c.Color, c.Description, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	query := `
		SELECT id, name, COALESCE(parent_id::text, ''), color, description, created_at
		FROM categories WHERE id = $1`
	return r.getOne(query, id)
}

// GetByNameAndParent clave de idempotencia de create-or-get: (nombre, padre).
// El nombre compara sin distinguir mayúsculas.
func (r *CategoryRepo) GetByNameAndParent(name, parentID string) (*entity.Category, error) {
	query := `
		SELECT id, name, COALESCE(parent_id::text, ''), color, description, created_at
		FROM categories
		WHERE lower(name) = lower($1) AND parent_id IS NOT DISTINCT FROM NULLIF($2, '')::uuid`
	row := r.q.QueryRow(context.Background(), query, name, parentID)
	return scanCategoryRow(row)
}

func (r *CategoryRepo) getOne(query string, arg any) (*entity.Category, error) {
	row := r.q.QueryRow(context.Background(), query, arg)
	return scanCategoryRow(row)
}

// Update actualiza nombre, padre, color y descripción.
func (r *CategoryRepo) Update(c *entity.Category) error {
	query := `
		UPDATE categories SET name = $2, parent_id = NULLIF($3, '')::uuid, color = $4, description = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, c.ID, c.Name, c.ParentID, c.Color, c.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete borra una categoría por ID (el caso de uso valida que esté vacía).
func (r *CategoryRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// List devuelve todas las categorías.
func (r *CategoryRepo) List() ([]*entity.Category, error) {
	query := `
		SELECT id, name, COALESCE(parent_id::text, ''), color, description, created_at
		FROM categories ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.Color, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// CountItems cuenta artículos activos con membresía en alguna de las
// categorías dadas (DISTINCT: en varias categorías cuentan una vez).
func (r *CategoryRepo) CountItems(categoryIDs []string) (int, error) {
	query := `
		SELECT COUNT(DISTINCT ic.item_id)
		FROM item_categories ic
		JOIN items i ON i.id = ic.item_id
		WHERE ic.category_id = ANY($1) AND i.status = $2`
	var count int
	err := r.q.QueryRow(context.Background(), query, categoryIDs, entity.ItemStatusActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count category items: %w", err)
	}
	return count, nil
}

// HasItems indica si la categoría tiene artículos asociados.
func (r *CategoryRepo) HasItems(id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM item_categories WHERE category_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category has items: %w", err)
	}
	return exists, nil
}

// HasChildren indica si la categoría tiene subcategorías.
func (r *CategoryRepo) HasChildren(id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM categories WHERE parent_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category has children: %w", err)
	}
	return exists, nil
}

func scanCategoryRow(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	err := row.Scan(&c.ID, &c.Name, &c.ParentID, &c.Color, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}
