package memory

import "github.com/jhoicas/stock-ledger-api/internal/domain/entity"

// Identificadores fijos de los datos demo (modo STORAGE_DRIVER=memory).
const (
	DemoWarehouseMain   = "00000000-0000-0000-0000-0000000000a1"
	DemoWarehouseBranch = "00000000-0000-0000-0000-0000000000a2"
	DemoProductGloves   = "00000000-0000-0000-0000-0000000000b1"
	DemoProductSyringe  = "00000000-0000-0000-0000-0000000000b2"
	DemoSupplier        = "00000000-0000-0000-0000-0000000000c1"
)

// SeedDemo carga bodegas, productos y un proveedor para desarrollo local.
func (s *Store) SeedDemo() {
	s.AddWarehouse(entity.Warehouse{ID: DemoWarehouseMain, Name: "Bodega principal", Code: "WH-MAIN", Country: "CM", City: "Douala", IsActive: true})
	s.AddWarehouse(entity.Warehouse{ID: DemoWarehouseBranch, Name: "Sucursal", Code: "WH-BR1", Country: "CM", City: "Yaoundé", IsActive: true})
	s.AddProduct(entity.Product{ID: DemoProductGloves, SKU: "GLV-100", Name: "Guantes de nitrilo (caja x100)"})
	s.AddProduct(entity.Product{ID: DemoProductSyringe, SKU: "SYR-5ML", Name: "Jeringa 5 ml"})
	s.AddSupplier(entity.Supplier{ID: DemoSupplier, Name: "Distribuidora Médica", Code: "SUP-001", IsActive: true})
}
