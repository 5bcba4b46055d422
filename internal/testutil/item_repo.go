package testutil

import (
	"sort"
	"strings"
	"time"

	"github.com/atrezzo-rental/almacen-api/internal/domain"
	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*MemItemRepo)(nil)

// MemItemRepo artículos en memoria.
type MemItemRepo struct {
	f *Fixture
}

func (r *MemItemRepo) Create(item *entity.Item) error {
	if _, ok := r.f.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.f.items {
		if item.Barcode != "" && existing.Barcode == item.Barcode {
			return domain.ErrDuplicate
		}
		if item.SKU != "" && existing.SKU == item.SKU {
			return domain.ErrDuplicate
		}
	}
	r.f.items[item.ID] = cloneItem(item)
	return nil
}

func (r *MemItemRepo) GetByID(id string) (*entity.Item, error) {
	if item, ok := r.f.items[id]; ok {
		return cloneItem(item), nil
	}
	return nil, nil
}

// GetForUpdate en memoria no bloquea nada; el mutex del fixture ya
// serializa las transacciones completas.
func (r *MemItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return r.GetByID(id)
}

func (r *MemItemRepo) GetByBarcode(barcode string) (*entity.Item, error) {
	for _, item := range r.f.items {
		if item.Barcode != "" && item.Barcode == barcode {
			return cloneItem(item), nil
		}
	}
	return nil, nil
}

func (r *MemItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	for _, item := range r.f.items {
		if item.SKU != "" && item.SKU == sku {
			return cloneItem(item), nil
		}
	}
	return nil, nil
}

func (r *MemItemRepo) Update(item *entity.Item) error {
	stored, ok := r.f.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := cloneItem(item)
	// Las cantidades solo cambian vía UpdateQuantities
	cp.CurrentQuantity = stored.CurrentQuantity
	cp.ReservedQuantity = stored.ReservedQuantity
	cp.LastOperationAt = stored.LastOperationAt
	r.f.items[item.ID] = cp
	return nil
}

func (r *MemItemRepo) UpdateQuantities(id string, current, reserved int64, lastOperationAt time.Time) error {
	item, ok := r.f.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.CurrentQuantity = current
	item.ReservedQuantity = reserved
	t := lastOperationAt
	item.LastOperationAt = &t
	item.UpdatedAt = lastOperationAt
	return nil
}

func (r *MemItemRepo) Search(f repository.ItemFilter) ([]*entity.Item, error) {
	var list []*entity.Item
	for _, item := range r.f.items {
		if f.Status != "" && item.Status != f.Status {
			continue
		}
		if f.Text != "" && !matchesText(item, f.Text) {
			continue
		}
		if len(f.CategoryIDs) > 0 && !r.inAnyCategory(item.ID, f.CategoryIDs) {
			continue
		}
		list = append(list, cloneItem(item))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	if f.Offset > 0 {
		if f.Offset >= len(list) {
			return nil, nil
		}
		list = list[f.Offset:]
	}
	if f.Limit > 0 && len(list) > f.Limit {
		list = list[:f.Limit]
	}
	return list, nil
}

func (r *MemItemRepo) LowStock() ([]*entity.Item, error) {
	var list []*entity.Item
	for _, item := range r.f.items {
		if item.Status == entity.ItemStatusActive && item.IsLowStock() {
			list = append(list, cloneItem(item))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *MemItemRepo) SetCategories(itemID string, categoryIDs []string) error {
	set := make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		set[id] = true
	}
	r.f.itemCats[itemID] = set
	return nil
}

func (r *MemItemRepo) CategoryIDs(itemID string) ([]string, error) {
	set := r.f.itemCats[itemID]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *MemItemRepo) inAnyCategory(itemID string, categoryIDs []string) bool {
	set := r.f.itemCats[itemID]
	for _, id := range categoryIDs {
		if set[id] {
			return true
		}
	}
	return false
}

func matchesText(item *entity.Item, text string) bool {
	t := strings.ToLower(text)
	for _, s := range []string{item.Name, item.Barcode, item.SKU, item.Description} {
		if strings.Contains(strings.ToLower(s), t) {
			return true
		}
	}
	return false
}
