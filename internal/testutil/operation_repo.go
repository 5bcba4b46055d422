package testutil

import (
	"time"

	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

var _ repository.OperationRepository = (*MemOperationRepo)(nil)

// MemOperationRepo libro de operaciones en memoria (append-only).
type MemOperationRepo struct {
	f *Fixture
}

func (r *MemOperationRepo) Create(op *entity.Operation) error {
	cp := *op
	r.f.ops = append(r.f.ops, &cp)
	return nil
}

func (r *MemOperationRepo) ListByItem(itemID string, limit, offset int) ([]*entity.Operation, error) {
	var list []*entity.Operation
	// El slice está en orden de inserción; recorrer al revés da el más
	// reciente primero, igual que el adaptador real.
	for i := len(r.f.ops) - 1; i >= 0; i-- {
		if r.f.ops[i].ItemID == itemID {
			cp := *r.f.ops[i]
			list = append(list, &cp)
		}
	}
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

func (r *MemOperationRepo) SumChangesByItem(itemID string) (int64, error) {
	var sum int64
	for _, op := range r.f.ops {
		if op.ItemID == itemID {
			sum += op.QuantityChange
		}
	}
	return sum, nil
}

func (r *MemOperationRepo) CountSince(since time.Time) (int, error) {
	count := 0
	for _, op := range r.f.ops {
		if !op.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// All devuelve el libro completo en orden de inserción (solo para asserts).
func (r *MemOperationRepo) All() []*entity.Operation {
	list := make([]*entity.Operation, 0, len(r.f.ops))
	for _, op := range r.f.ops {
		cp := *op
		list = append(list, &cp)
	}
	return list
}
