package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atrezzo-rental/almacen-api/internal/application/catalog"
	"github.com/atrezzo-rental/almacen-api/internal/application/dto"
	"github.com/atrezzo-rental/almacen-api/internal/domain"
	"github.com/atrezzo-rental/almacen-api/internal/testutil"
)

func newCategoryUC(t *testing.T) (*testutil.Fixture, *catalog.CategoryUseCase) {
	t.Helper()
	f := testutil.NewFixture()
	return f, catalog.NewCategoryUseCase(f.Categories)
}

func mustCreate(t *testing.T, uc *catalog.CategoryUseCase, name, parentID string) *dto.CategoryResponse {
	t.Helper()
	out, err := uc.CreateOrGet(dto.CreateCategoryRequest{Name: name, ParentID: parentID})
	require.NoError(t, err)
	return out
}

func TestCreateOrGet_Idempotente(t *testing.T) {
	_, uc := newCategoryUC(t)

	first := mustCreate(t, uc, "Iluminación", "")
	second := mustCreate(t, uc, "Iluminación", "")
	assert.Equal(t, first.ID, second.ID, "mismo nombre y padre debe devolver la misma categoría")

	// El nombre se normaliza con trim; mayúsculas no crean otra categoría
	third, err := uc.CreateOrGet(dto.CreateCategoryRequest{Name: "  iluminación  "})
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)
}

func TestCreateOrGet_MismoNombreDistintoPadre(t *testing.T) {
	_, uc := newCategoryUC(t)

	root := mustCreate(t, uc, "Vestuario", "")
	child := mustCreate(t, uc, "Época", root.ID)
	other := mustCreate(t, uc, "Época", "")
	assert.NotEqual(t, child.ID, other.ID, "el mismo nombre bajo padres distintos son categorías distintas")
}

func TestCreateOrGet_PadreInexistente(t *testing.T) {
	_, uc := newCategoryUC(t)
	_, err := uc.CreateOrGet(dto.CreateCategoryRequest{Name: "Huérfana", ParentID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateOrGet_NombreVacio(t *testing.T) {
	_, uc := newCategoryUC(t)
	_, err := uc.CreateOrGet(dto.CreateCategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReparent_RechazaCiclo(t *testing.T) {
	_, uc := newCategoryUC(t)

	a := mustCreate(t, uc, "A", "")
	b := mustCreate(t, uc, "B", a.ID)
	c := mustCreate(t, uc, "C", b.ID)

	// A no puede colgar de C: C está dentro del subárbol de A
	_, err := uc.Reparent(a.ID, c.ID)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Una categoría tampoco puede ser su propio padre
	_, err = uc.Reparent(a.ID, a.ID)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Mover C a raíz sí es válido
	moved, err := uc.Reparent(c.ID, "")
	require.NoError(t, err)
	assert.Empty(t, moved.ParentID)
}

func TestFullPath(t *testing.T) {
	_, uc := newCategoryUC(t)

	root := mustCreate(t, uc, "Mobiliario", "")
	mid := mustCreate(t, uc, "Sillas", root.ID)
	leaf := mustCreate(t, uc, "Antiguas", mid.ID)

	path, err := uc.FullPath(leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mobiliario/Sillas/Antiguas", path)

	path, err = uc.FullPath(root.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mobiliario", path)

	_, err = uc.FullPath("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemCount_ConDescendientes(t *testing.T) {
	f, uc := newCategoryUC(t)

	root := mustCreate(t, uc, "Utilería", "")
	child := mustCreate(t, uc, "Cocina", root.ID)

	itemA := seedCatalogItem(t, f, "Tetera de cobre", "")
	itemB := seedCatalogItem(t, f, "Sartén de hierro", "")
	require.NoError(t, f.Items.SetCategories(itemA.ID, []string{root.ID}))
	// Miembro de ambas: debe contar una sola vez en el subárbol
	require.NoError(t, f.Items.SetCategories(itemB.ID, []string{root.ID, child.ID}))

	direct, err := uc.ItemCount(root.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, direct)

	subtree, err := uc.ItemCount(root.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, subtree, "un artículo en varias categorías del subárbol cuenta una vez")

	childOnly, err := uc.ItemCount(child.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, childOnly)
}

func TestDelete_SoloVacias(t *testing.T) {
	f, uc := newCategoryUC(t)

	root := mustCreate(t, uc, "Sonido", "")
	child := mustCreate(t, uc, "Micrófonos", root.ID)

	// Con hijos no se borra
	err := uc.Delete(root.ID)
	require.ErrorIs(t, err, domain.ErrConflict)

	// Con miembros tampoco
	item := seedCatalogItem(t, f, "Micrófono de cinta", "")
	require.NoError(t, f.Items.SetCategories(item.ID, []string{child.ID}))
	err = uc.Delete(child.ID)
	require.ErrorIs(t, err, domain.ErrConflict)

	// Vacía sí
	require.NoError(t, f.Items.SetCategories(item.ID, nil))
	require.NoError(t, uc.Delete(child.ID))
	require.NoError(t, uc.Delete(root.ID))
}
