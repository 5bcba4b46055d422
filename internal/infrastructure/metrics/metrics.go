package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores del libro y sesiones de conteo, expuestos en /metrics.
var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "almacen_operations_total",
		Help: "Operaciones asentadas en el libro, por tipo.",
	}, []string{"type"})

	operationRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "almacen_operation_rejections_total",
		Help: "Operaciones rechazadas antes de asentarse, por motivo.",
	}, []string{"reason"})

	inventoriesOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "almacen_inventories_open",
		Help: "Sesiones de conteo físico en curso.",
	})
)

// OperationApplied registra una operación asentada.
func OperationApplied(opType string) {
	operationsTotal.WithLabelValues(opType).Inc()
}

// OperationRejected registra un rechazo (validación o invariante).
func OperationRejected(reason string) {
	operationRejections.WithLabelValues(reason).Inc()
}

// InventoryOpened / InventoryClosed mantienen el gauge de sesiones en curso.
func InventoryOpened() { inventoriesOpen.Inc() }
func InventoryClosed() { inventoriesOpen.Dec() }
