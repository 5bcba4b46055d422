package repository

import "github.com/atrezzo-rental/almacen-api/internal/domain/entity"

// CategoryRepository puerto de persistencia para categorías.
type CategoryRepository interface {
	Create(c *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	// GetByNameAndParent clave de idempotencia de create-or-get: (nombre, padre).
	GetByNameAndParent(name, parentID string) (*entity.Category, error)
	Update(c *entity.Category) error
	// Delete borra la categoría; el caso de uso garantiza antes que no
	// tenga artículos ni subcategorías.
	Delete(id string) error
	List() ([]*entity.Category, error)
	// CountItems cuenta artículos activos cuya membresía incluye alguna de
	// las categorías dadas (artículos en varias categorías cuentan una vez).
	CountItems(categoryIDs []string) (int, error)
	HasItems(id string) (bool, error)
	HasChildren(id string) (bool, error)
}
