package entity

import "time"

// Category representa una categoría jerárquica de artículos.
// Árbol por ParentID (vacío si es raíz); asociación N:M con Item vía item_categories.
// El invariante de aciclicidad se valida al crear o reasignar el padre.
type Category struct {
	ID          string
	Name        string
	ParentID    string // vacío si es raíz
	Color       string // etiqueta de color para la UI
	Description string
	CreatedAt   time.Time
}
