package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/stgeorge_backend/internal/api/http/handler"
	"github.com/Alijeyrad/stgeorge_backend/pkg/authorize"
)

func (r *Router) registerCatalogRoutes(api fiber.Router, h *handler.CatalogHandler, sessionRequired fiber.Handler, requirePerm permFunc) {
	list := func(res authorize.Resource) fiber.Handler {
		return requirePerm(res, authorize.ActionList)
	}

	api.Get("/branches", sessionRequired, list(authorize.ResourceBranch), h.Branches)
	api.Get("/medicines", sessionRequired, list(authorize.ResourceMedicine), h.Medicines)
	api.Get("/inventory", sessionRequired, list(authorize.ResourceInventory), h.Inventory)
	api.Get("/bills", sessionRequired, list(authorize.ResourceBill), h.Bills)
	api.Get("/rooms", sessionRequired, list(authorize.ResourceRoom), h.Rooms)
	api.Get("/lab-tests", sessionRequired, list(authorize.ResourceLabTest), h.LabTests)
}
