package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger-api/internal/application/access"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
)

// capabilityChecker es el contrato mínimo que necesita el middleware para autorizar.
// Lo implementa *access.RolePolicy.
type capabilityChecker interface {
	HasCapability(ctx context.Context, role string, capability access.Capability) (bool, error)
}

// RequireCapability devuelve un middleware Fiber que verifica si el rol del token JWT
// posee la capacidad indicada. Debe usarse DESPUÉS de AuthMiddleware (necesita LocalRole).
//
// Comportamiento:
//   - 401 Unauthorized → el token no trae rol.
//   - 403 Forbidden → el rol no posee la capacidad.
//   - 503 Service Unavailable → no se pudo consultar la política.
func RequireCapability(capability access.Capability, checker capabilityChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "MISSING_ROLE",
				Message: "el token no incluye un rol",
			})
		}

		ok, err := checker.HasCapability(c.Context(), role, capability)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:      "CAPABILITY_CHECK_FAILED",
				Message:   "no se pudo verificar el permiso, intente más tarde",
				Retryable: true,
			})
		}

		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol '" + role + "' no tiene el permiso '" + string(capability) + "'",
			})
		}

		return c.Next()
	}
}
