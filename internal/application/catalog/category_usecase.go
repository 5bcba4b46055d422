package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atrezzo-rental/almacen-api/internal/application/dto"
	"github.com/atrezzo-rental/almacen-api/internal/domain"
	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

// Profundidad máxima del árbol de categorías; también corta el recorrido
// de la cadena de padres si un dato corrupto llegara a formar un ciclo.
const maxCategoryDepth = 32

// CategoryUseCase grafo de categorías: árbol por padre, asociación N:M
// con artículos. Solo toca la tabla de categorías, nunca los artículos.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// CreateOrGet crea la categoría o devuelve la existente con el mismo
// (nombre, padre). Valida que el padre exista y que su cadena sea acíclica.
func (uc *CategoryUseCase) CreateOrGet(in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ParentID != "" {
		parent, err := uc.repo.GetByID(in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrNotFound
		}
		if _, err := uc.parentChain(in.ParentID); err != nil {
			return nil, err
		}
	}

	existing, err := uc.repo.GetByNameAndParent(name, in.ParentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return toCategoryResponse(existing), nil
	}

	cat := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		ParentID:    in.ParentID,
		Color:       in.Color,
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// Reparent mueve la categoría bajo otro padre. Rechaza el movimiento si la
// categoría quedaría dentro de su propio subárbol (ciclo).
func (uc *CategoryUseCase) Reparent(id, newParentID string) (*dto.CategoryResponse, error) {
	cat, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrNotFound
	}
	if newParentID != "" {
		parent, err := uc.repo.GetByID(newParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrNotFound
		}
		chain, err := uc.parentChain(newParentID)
		if err != nil {
			return nil, err
		}
		for _, c := range chain {
			if c.ID == id {
				return nil, domain.ErrInvalidInput
			}
		}
	}
	cat.ParentID = newParentID
	if err := uc.repo.Update(cat); err != nil {
		return nil, err
	}
	return toCategoryResponse(cat), nil
}

// FullPath devuelve la ruta desde la raíz hasta la categoría, separada por "/".
// O(profundidad), acotado por maxCategoryDepth.
func (uc *CategoryUseCase) FullPath(id string) (string, error) {
	chain, err := uc.parentChain(id)
	if err != nil {
		return "", err
	}
	if len(chain) == 0 {
		return "", domain.ErrNotFound
	}
	// chain va de la categoría hacia la raíz; invertir
	parts := make([]string, len(chain))
	for i, c := range chain {
		parts[len(chain)-1-i] = c.Name
	}
	return strings.Join(parts, "/"), nil
}

// ItemCount cuenta artículos activos de la categoría; con descendientes
// incluye todo el subárbol (los artículos en varias categorías del
// subárbol cuentan una sola vez).
func (uc *CategoryUseCase) ItemCount(id string, includeDescendants bool) (int, error) {
	cat, err := uc.repo.GetByID(id)
	if err != nil {
		return 0, err
	}
	if cat == nil {
		return 0, domain.ErrNotFound
	}
	ids := []string{id}
	if includeDescendants {
		ids, err = uc.subtreeIDs(id)
		if err != nil {
			return 0, err
		}
	}
	return uc.repo.CountItems(ids)
}

// List devuelve todas las categorías.
func (uc *CategoryUseCase) List() ([]dto.CategoryResponse, error) {
	cats, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Delete borra una categoría sin miembros ni subcategorías; en otro caso
// devuelve conflicto (reasignar primero, nunca borrado en cascada).
func (uc *CategoryUseCase) Delete(id string) error {
	cat, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if cat == nil {
		return domain.ErrNotFound
	}
	hasItems, err := uc.repo.HasItems(id)
	if err != nil {
		return err
	}
	hasChildren, err := uc.repo.HasChildren(id)
	if err != nil {
		return err
	}
	if hasItems || hasChildren {
		return domain.ErrConflict
	}
	return uc.repo.Delete(id)
}

// parentChain recorre la cadena de padres desde la categoría dada hacia la
// raíz. Corta con ErrInvalidInput si excede maxCategoryDepth.
func (uc *CategoryUseCase) parentChain(id string) ([]*entity.Category, error) {
	var chain []*entity.Category
	cur := id
	for depth := 0; cur != ""; depth++ {
		if depth >= maxCategoryDepth {
			return nil, domain.ErrInvalidInput
		}
		cat, err := uc.repo.GetByID(cur)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, domain.ErrNotFound
		}
		chain = append(chain, cat)
		cur = cat.ParentID
	}
	return chain, nil
}

// subtreeIDs enumera la categoría y todos sus descendientes (BFS sobre el
// listado completo; el árbol es pequeño y acíclico por invariante).
func (uc *CategoryUseCase) subtreeIDs(rootID string) ([]string, error) {
	all, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	children := make(map[string][]string, len(all))
	for _, c := range all {
		if c.ParentID != "" {
			children[c.ParentID] = append(children[c.ParentID], c.ID)
		}
	}
	ids := []string{rootID}
	for i := 0; i < len(ids); i++ {
		ids = append(ids, children[ids[i]]...)
	}
	return ids, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		ParentID:    c.ParentID,
		Color:       c.Color,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}
