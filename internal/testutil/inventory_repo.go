package testutil

import (
	"sort"

	"github.com/atrezzo-rental/almacen-api/internal/domain"
	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*MemInventoryRepo)(nil)

// MemInventoryRepo sesiones de conteo en memoria.
type MemInventoryRepo struct {
	f *Fixture
}

func (r *MemInventoryRepo) Create(inv *entity.Inventory) error {
	if _, ok := r.f.invs[inv.ID]; ok {
		return domain.ErrDuplicate
	}
	r.f.invs[inv.ID] = cloneInventory(inv)
	return nil
}

func (r *MemInventoryRepo) GetByID(id string) (*entity.Inventory, error) {
	if inv, ok := r.f.invs[id]; ok {
		return cloneInventory(inv), nil
	}
	return nil, nil
}

// GetForUpdate equivale a GetByID: el mutex del TxRunner ya serializa.
func (r *MemInventoryRepo) GetForUpdate(id string) (*entity.Inventory, error) {
	return r.GetByID(id)
}

func (r *MemInventoryRepo) Update(inv *entity.Inventory) error {
	if _, ok := r.f.invs[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.f.invs[inv.ID] = cloneInventory(inv)
	return nil
}

func (r *MemInventoryRepo) List(limit, offset int) ([]*entity.Inventory, error) {
	list := make([]*entity.Inventory, 0, len(r.f.invs))
	for _, inv := range r.f.invs {
		list = append(list, cloneInventory(inv))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].StartedAt.Equal(list[j].StartedAt) {
			return list[i].StartedAt.After(list[j].StartedAt)
		}
		return list[i].ID < list[j].ID
	})
	if offset > 0 {
		if offset >= len(list) {
			return nil, nil
		}
		list = list[offset:]
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *MemInventoryRepo) CreateRecord(rec *entity.InventoryRecord) error {
	key := recordKey(rec.InventoryID, rec.ItemID)
	if _, ok := r.f.recs[key]; ok {
		return domain.ErrDuplicate
	}
	r.f.recs[key] = cloneRecord(rec)
	return nil
}

func (r *MemInventoryRepo) GetRecord(inventoryID, itemID string) (*entity.InventoryRecord, error) {
	if rec, ok := r.f.recs[recordKey(inventoryID, itemID)]; ok {
		return cloneRecord(rec), nil
	}
	return nil, nil
}

func (r *MemInventoryRepo) UpdateRecord(rec *entity.InventoryRecord) error {
	key := recordKey(rec.InventoryID, rec.ItemID)
	if _, ok := r.f.recs[key]; !ok {
		return domain.ErrNotFound
	}
	r.f.recs[key] = cloneRecord(rec)
	return nil
}

func (r *MemInventoryRepo) ListRecords(inventoryID string) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	for _, rec := range r.f.recs {
		if rec.InventoryID == inventoryID {
			list = append(list, cloneRecord(rec))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ItemID < list[j].ItemID })
	return list, nil
}

func (r *MemInventoryRepo) ListRecordRows(inventoryID string) ([]*repository.CountSheetRow, error) {
	recs, err := r.ListRecords(inventoryID)
	if err != nil {
		return nil, err
	}
	rows := make([]*repository.CountSheetRow, 0, len(recs))
	for _, rec := range recs {
		row := &repository.CountSheetRow{
			ItemID:         rec.ItemID,
			SystemQuantity: rec.SystemQuantity,
			ActualQuantity: rec.ActualQuantity,
			Difference:     rec.Difference,
			Status:         rec.Status,
			Comment:        rec.Comment,
		}
		if item, ok := r.f.items[rec.ItemID]; ok {
			row.SKU = item.SKU
			row.Name = item.Name
			row.Unit = item.Unit
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

func (r *MemInventoryRepo) CountPendingRecords(inventoryID string) (int, error) {
	count := 0
	for _, rec := range r.f.recs {
		if rec.InventoryID == inventoryID && rec.Status == entity.RecordStatusPending {
			count++
		}
	}
	return count, nil
}
