package repository

// TxRepos repositorios atados a una misma transacción (unidad de trabajo).
// Se obtienen únicamente dentro del callback de un TxRunner.
type TxRepos interface {
	Stock() StockRepository
	Movements() StockMovementRepository
	PurchaseOrders() PurchaseOrderRepository
}
