package routers

import (
	"medbook-service/internal/app/delivery/http/controllers"
	"medbook-service/internal/app/delivery/http/middlewares"
	"medbook-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachPrescriptionRouter(router chi.Router, middlewares *middlewares.Middlewares, prescriptionController *controllers.PrescriptionController) {
	router.Use(middlewares.Authenticate)

	router.Get("/", prescriptionController.ListPrescriptions)
	router.Get("/{prescriptionID}", prescriptionController.GetPrescription)
	router.With(middlewares.RequireRole(constvars.RoleDoctor)).Post("/", prescriptionController.CreatePrescription)
}
