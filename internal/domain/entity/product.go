package entity

// Product producto del catálogo (dato maestro externo, solo lectura).
type Product struct {
	ID   string
	SKU  string
	Name string
}

// Supplier proveedor (dato maestro externo, solo lectura).
type Supplier struct {
	ID       string
	Name     string
	Code     string
	IsActive bool
}
