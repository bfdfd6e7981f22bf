// Package access define las capacidades que protege la API y qué rol las posee.
package access

import "context"

// Capability permiso sobre una operación del motor de inventario o compras.
type Capability string

const (
	InventoryRead     Capability = "inventory:read"
	InventoryAdjust   Capability = "inventory:adjust"
	InventoryReserve  Capability = "inventory:reserve"
	InventoryTransfer Capability = "inventory:transfer"

	PurchasingRead    Capability = "purchasing:read"
	PurchasingWrite   Capability = "purchasing:write"
	PurchasingApprove Capability = "purchasing:approve"
	PurchasingReceive Capability = "purchasing:receive"
)

// Roles reconocidos en el claim "role" del JWT.
const (
	RoleSuperAdmin        = "super_admin"
	RoleAdmin             = "admin"
	RoleWarehouseOperator = "warehouse_operator"
	RolePurchaser         = "purchaser"
	RoleViewer            = "viewer"
)

// RolePolicy tabla estática rol → capacidades.
type RolePolicy struct {
	grants map[string]map[Capability]struct{}
}

// DefaultPolicy: super_admin y admin tienen todo; los demás roles solo lo que su tarea requiere.
func DefaultPolicy() *RolePolicy {
	all := []Capability{
		InventoryRead, InventoryAdjust, InventoryReserve, InventoryTransfer,
		PurchasingRead, PurchasingWrite, PurchasingApprove, PurchasingReceive,
	}
	return NewRolePolicy(map[string][]Capability{
		RoleSuperAdmin:        all,
		RoleAdmin:             all,
		RoleWarehouseOperator: {InventoryRead, InventoryAdjust, InventoryReserve, InventoryTransfer, PurchasingRead, PurchasingReceive},
		RolePurchaser:         {InventoryRead, PurchasingRead, PurchasingWrite},
		RoleViewer:            {InventoryRead, PurchasingRead},
	})
}

// NewRolePolicy construye una política a partir de la tabla dada.
func NewRolePolicy(table map[string][]Capability) *RolePolicy {
	grants := make(map[string]map[Capability]struct{}, len(table))
	for role, caps := range table {
		set := make(map[Capability]struct{}, len(caps))
		for _, c := range caps {
			set[c] = struct{}{}
		}
		grants[role] = set
	}
	return &RolePolicy{grants: grants}
}

// HasCapability indica si el rol posee la capacidad. Un rol desconocido no posee ninguna.
func (p *RolePolicy) HasCapability(_ context.Context, role string, capability Capability) (bool, error) {
	set, ok := p.grants[role]
	if !ok {
		return false, nil
	}
	_, ok = set[capability]
	return ok, nil
}
