package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/catalog"
	"github.com/Alijeyrad/stgeorge_backend/pkg/reqctx"
)

type CatalogHandler struct {
	svc catalog.Service
}

func NewCatalogHandler(svc catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Catalog reads have no client errors; anything that fails is ours.
func catalogError(c fiber.Ctx, err error) error {
	slog.Error("catalog read failed", append(reqctx.LogAttrs(c.Context()), "path", c.Path(), "error", err)...)
	return internalError(c)
}

// GET /branches
func (h *CatalogHandler) Branches(c fiber.Ctx) error {
	items, err := h.svc.Branches(c.Context())
	if err != nil {
		return catalogError(c, err)
	}
	return ok(c, items)
}

// GET /medicines
func (h *CatalogHandler) Medicines(c fiber.Ctx) error {
	items, err := h.svc.Medicines(c.Context())
	if err != nil {
		return catalogError(c, err)
	}
	return ok(c, items)
}

// GET /inventory[?branchId=&lowStock=true]
func (h *CatalogHandler) Inventory(c fiber.Ctx) error {
	items, err := h.svc.Inventory(c.Context(), catalog.InventoryRequest{
		BranchID: c.Query("branchId"),
		LowStock: fiber.Query[bool](c, "lowStock"),
	})
	if err != nil {
		return catalogError(c, err)
	}
	return ok(c, items)
}

// GET /bills[?patientId=&status=]
func (h *CatalogHandler) Bills(c fiber.Ctx) error {
	items, err := h.svc.Bills(c.Context(), catalog.BillsRequest{
		PatientID: c.Query("patientId"),
		Status:    domain.BillStatus(c.Query("status")),
	})
	if err != nil {
		return catalogError(c, err)
	}
	return ok(c, items)
}

// GET /rooms[?branchId=]
func (h *CatalogHandler) Rooms(c fiber.Ctx) error {
	items, err := h.svc.Rooms(c.Context(), c.Query("branchId"))
	if err != nil {
		return catalogError(c, err)
	}
	return ok(c, items)
}

// GET /lab-tests
func (h *CatalogHandler) LabTests(c fiber.Ctx) error {
	items, err := h.svc.LabTests(c.Context())
	if err != nil {
		return catalogError(c, err)
	}
	return ok(c, items)
}
