// Package testutil provee implementaciones en memoria de los puertos de
// persistencia para probar los casos de uso sin PostgreSQL. El runner de
// transacciones simula rollback restaurando el estado previo si la
// función devuelve error.
package testutil

import (
	"context"
	"sync"

	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

// Fixture estado compartido entre los repositorios en memoria.
type Fixture struct {
	mu       sync.Mutex
	items    map[string]*entity.Item
	itemCats map[string]map[string]bool // itemID -> set de categoryID
	cats     map[string]*entity.Category
	ops      []*entity.Operation
	invs     map[string]*entity.Inventory
	recs     map[string]*entity.InventoryRecord // inventoryID+"/"+itemID

	Items       *MemItemRepo
	Categories  *MemCategoryRepo
	Operations  *MemOperationRepo
	Inventories *MemInventoryRepo
	Reports     *MemReportRepo
	TxRunner    *MemTxRunner
}

// NewFixture construye el estado vacío con todos los repositorios atados.
func NewFixture() *Fixture {
	f := &Fixture{
		items:    make(map[string]*entity.Item),
		itemCats: make(map[string]map[string]bool),
		cats:     make(map[string]*entity.Category),
		invs:     make(map[string]*entity.Inventory),
		recs:     make(map[string]*entity.InventoryRecord),
	}
	f.Items = &MemItemRepo{f: f}
	f.Categories = &MemCategoryRepo{f: f}
	f.Operations = &MemOperationRepo{f: f}
	f.Inventories = &MemInventoryRepo{f: f}
	f.Reports = &MemReportRepo{f: f}
	f.TxRunner = &MemTxRunner{f: f}
	return f
}

// MemTxRunner serializa las "transacciones" con el mutex del fixture y
// restaura el estado previo si fn devuelve error (rollback simulado).
type MemTxRunner struct {
	f *Fixture
}

func (r *MemTxRunner) Run(ctx context.Context, fn func(
	items repository.ItemRepository,
	cats repository.CategoryRepository,
	ops repository.OperationRepository,
	invs repository.InventoryRepository,
) error) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	snap := r.f.snapshot()
	if err := fn(r.f.Items, r.f.Categories, r.f.Operations, r.f.Inventories); err != nil {
		r.f.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	items    map[string]*entity.Item
	itemCats map[string]map[string]bool
	cats     map[string]*entity.Category
	opsLen   int
	invs     map[string]*entity.Inventory
	recs     map[string]*entity.InventoryRecord
}

func (f *Fixture) snapshot() snapshot {
	s := snapshot{
		items:    make(map[string]*entity.Item, len(f.items)),
		itemCats: make(map[string]map[string]bool, len(f.itemCats)),
		cats:     make(map[string]*entity.Category, len(f.cats)),
		opsLen:   len(f.ops),
		invs:     make(map[string]*entity.Inventory, len(f.invs)),
		recs:     make(map[string]*entity.InventoryRecord, len(f.recs)),
	}
	for k, v := range f.items {
		s.items[k] = cloneItem(v)
	}
	for k, set := range f.itemCats {
		cp := make(map[string]bool, len(set))
		for id := range set {
			cp[id] = true
		}
		s.itemCats[k] = cp
	}
	for k, v := range f.cats {
		cp := *v
		s.cats[k] = &cp
	}
	for k, v := range f.invs {
		s.invs[k] = cloneInventory(v)
	}
	for k, v := range f.recs {
		s.recs[k] = cloneRecord(v)
	}
	return s
}

func (f *Fixture) restore(s snapshot) {
	f.items = s.items
	f.itemCats = s.itemCats
	f.cats = s.cats
	f.ops = f.ops[:s.opsLen]
	f.invs = s.invs
	f.recs = s.recs
}

func cloneItem(i *entity.Item) *entity.Item {
	cp := *i
	if i.LastOperationAt != nil {
		t := *i.LastOperationAt
		cp.LastOperationAt = &t
	}
	return &cp
}

func cloneInventory(inv *entity.Inventory) *entity.Inventory {
	cp := *inv
	if inv.CompletedAt != nil {
		t := *inv.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

func cloneRecord(rec *entity.InventoryRecord) *entity.InventoryRecord {
	cp := *rec
	if rec.ActualQuantity != nil {
		v := *rec.ActualQuantity
		cp.ActualQuantity = &v
	}
	if rec.Difference != nil {
		v := *rec.Difference
		cp.Difference = &v
	}
	if rec.CheckedAt != nil {
		t := *rec.CheckedAt
		cp.CheckedAt = &t
	}
	return &cp
}

func recordKey(inventoryID, itemID string) string {
	return inventoryID + "/" + itemID
}
