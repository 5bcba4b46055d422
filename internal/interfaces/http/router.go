package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/atrezzo-rental/almacen-api/internal/application/catalog"
	"github.com/atrezzo-rental/almacen-api/internal/application/ledger"
	"github.com/atrezzo-rental/almacen-api/internal/application/recon"
	"github.com/atrezzo-rental/almacen-api/internal/application/reporting"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC *catalog.CategoryUseCase
	ItemUC     *catalog.ItemUseCase
	LedgerUC   *ledger.UseCase
	ReconUC    *recon.UseCase
	ReportUC   *reporting.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Categorías
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.CreateOrGet)
	categories.Get("/", categoryHandler.List)
	categories.Put("/:id/parent", categoryHandler.Reparent)
	categories.Get("/:id/path", categoryHandler.FullPath)
	categories.Get("/:id/items/count", categoryHandler.ItemCount)
	categories.Delete("/:id", categoryHandler.Delete)

	// Artículos
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.Search)
	items.Get("/low-stock", itemHandler.LowStock)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Put("/:id/categories", itemHandler.SetCategories)

	// Libro de operaciones
	operationHandler := NewOperationHandler(deps.LedgerUC)
	api.Post("/operations", operationHandler.Apply)
	items.Get("/:id/operations", operationHandler.History)
	items.Get("/:id/audit", operationHandler.Audit)

	// Sesiones de conteo físico
	inventories := api.Group("/inventories")
	inventoryHandler := NewInventoryHandler(deps.ReconUC)
	inventories.Post("/", inventoryHandler.Start)
	inventories.Get("/", inventoryHandler.List)
	inventories.Get("/:id", inventoryHandler.Get)
	inventories.Get("/:id/sheet", inventoryHandler.CountSheet)
	inventories.Put("/:id/records/:itemId", inventoryHandler.RecordCount)
	inventories.Post("/:id/records/:itemId/adjust", inventoryHandler.ApplyAdjustment)
	inventories.Post("/:id/complete", inventoryHandler.Complete)
	inventories.Post("/:id/cancel", inventoryHandler.Cancel)

	// Reportes
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/stats", reportHandler.Stats)
	reports.Get("/valuation", reportHandler.Valuation)
	reports.Get("/stock.xlsx", reportHandler.StockSheet)
}
