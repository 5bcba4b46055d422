package testutil

import (
	"sort"
	"strings"

	"github.com/atrezzo-rental/almacen-api/internal/domain"
	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*MemCategoryRepo)(nil)

// MemCategoryRepo categorías en memoria.
type MemCategoryRepo struct {
	f *Fixture
}

func (r *MemCategoryRepo) Create(c *entity.Category) error {
	if _, ok := r.f.cats[c.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.f.cats {
		if strings.EqualFold(existing.Name, c.Name) && existing.ParentID == c.ParentID {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.f.cats[c.ID] = &cp
	return nil
}

func (r *MemCategoryRepo) GetByID(id string) (*entity.Category, error) {
	if c, ok := r.f.cats[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *MemCategoryRepo) GetByNameAndParent(name, parentID string) (*entity.Category, error) {
	for _, c := range r.f.cats {
		if strings.EqualFold(c.Name, name) && c.ParentID == parentID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MemCategoryRepo) Update(c *entity.Category) error {
	if _, ok := r.f.cats[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.f.cats[c.ID] = &cp
	return nil
}

func (r *MemCategoryRepo) Delete(id string) error {
	delete(r.f.cats, id)
	return nil
}

func (r *MemCategoryRepo) List() ([]*entity.Category, error) {
	list := make([]*entity.Category, 0, len(r.f.cats))
	for _, c := range r.f.cats {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *MemCategoryRepo) CountItems(categoryIDs []string) (int, error) {
	want := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		want[id] = true
	}
	count := 0
	for itemID, set := range r.f.itemCats {
		item, ok := r.f.items[itemID]
		if !ok || item.Status != entity.ItemStatusActive {
			continue
		}
		for catID := range set {
			if want[catID] {
				count++
				break
			}
		}
	}
	return count, nil
}

func (r *MemCategoryRepo) HasItems(id string) (bool, error) {
	for _, set := range r.f.itemCats {
		if set[id] {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemCategoryRepo) HasChildren(id string) (bool, error) {
	for _, c := range r.f.cats {
		if c.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}
