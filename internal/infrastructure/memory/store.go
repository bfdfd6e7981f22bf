// Package memory implementa los puertos de persistencia en memoria, con la misma
// semántica de unidad de trabajo que PostgreSQL: un solo escritor a la vez, cada
// transacción trabaja sobre una copia y el commit reemplaza el estado.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner  = (*Store)(nil)
	_ purchasing.TxRunner = (*Store)(nil)
)

// errReadOnly escritura fuera de Run.
var errReadOnly = errors.New("memory: escritura fuera de una transacción")

// Store estado en memoria más datos maestros sembrados.
type Store struct {
	writer    sync.Mutex   // serializa transacciones
	mu        sync.RWMutex // protege committed y los datos maestros
	committed *state

	warehouses map[string]entity.Warehouse
	products   map[string]entity.Product
	suppliers  map[string]entity.Supplier
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		committed:  newState(),
		warehouses: make(map[string]entity.Warehouse),
		products:   make(map[string]entity.Product),
		suppliers:  make(map[string]entity.Supplier),
	}
}

// Run ejecuta fn sobre una copia del estado; si fn retorna nil la copia pasa a ser el estado confirmado.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	s.writer.Lock()
	defer s.writer.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	snap := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(&txRepos{st: snap}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = snap
	s.mu.Unlock()
	return nil
}

// Stock repositorio de lectura sobre el estado confirmado.
func (s *Store) Stock() repository.StockRepository { return &committedStock{s: s} }

// Movements repositorio de lectura del libro confirmado.
func (s *Store) Movements() repository.StockMovementRepository { return &committedMovements{s: s} }

// PurchaseOrders repositorio de lectura de órdenes confirmadas.
func (s *Store) PurchaseOrders() repository.PurchaseOrderRepository { return &committedOrders{s: s} }

// Warehouses consulta de bodegas sembradas.
func (s *Store) Warehouses() repository.WarehouseRepository { return warehouseLookup{s: s} }

// Products consulta de productos sembrados.
func (s *Store) Products() repository.ProductRepository { return productLookup{s: s} }

// Suppliers consulta de proveedores sembrados.
func (s *Store) Suppliers() repository.SupplierRepository { return supplierLookup{s: s} }

// AddWarehouse siembra una bodega.
func (s *Store) AddWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses[w.ID] = w
}

// AddProduct siembra un producto.
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// AddSupplier siembra un proveedor.
func (s *Store) AddSupplier(sp entity.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers[sp.ID] = sp
}

type txRepos struct {
	st *state
}

func (t *txRepos) Stock() repository.StockRepository                 { return stockRepo{st: t.st} }
func (t *txRepos) Movements() repository.StockMovementRepository      { return movementRepo{st: t.st} }
func (t *txRepos) PurchaseOrders() repository.PurchaseOrderRepository { return orderRepo{st: t.st} }

type warehouseLookup struct{ s *Store }

func (l warehouseLookup) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	w, ok := l.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

type productLookup struct{ s *Store }

func (l productLookup) GetByID(_ context.Context, id string) (*entity.Product, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	p, ok := l.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type supplierLookup struct{ s *Store }

func (l supplierLookup) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	sp, ok := l.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}
