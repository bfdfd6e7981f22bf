package entity

// Warehouse bodega (dato maestro externo; este núcleo solo la consulta).
type Warehouse struct {
	ID       string
	Name     string
	Code     string
	Country  string
	City     string
	IsActive bool
}
