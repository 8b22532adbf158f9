package routers

import (
	"medbook-service/internal/app/delivery/http/controllers"
	"medbook-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

// Catalog reads are public; no session is needed to browse doctors, labs and
// medicines or to see which slots are taken.
func attachCatalogRouter(router chi.Router, middlewares *middlewares.Middlewares, resourceController *controllers.ResourceController) {
	router.Get("/doctors", resourceController.ListDoctors)
	router.Get("/labs", resourceController.ListLabs)
	router.Get("/medicines", resourceController.ListMedicines)
	router.Get("/resources/{resourceID}", resourceController.GetResource)
	router.Get("/resources/{resourceID}/slots", resourceController.ListTakenSlots)
}
