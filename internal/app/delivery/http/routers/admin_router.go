package routers

import (
	"medbook-service/internal/app/delivery/http/controllers"
	"medbook-service/internal/app/delivery/http/middlewares"
	"medbook-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachAdminRouter(
	router chi.Router,
	middlewares *middlewares.Middlewares,
	authController *controllers.AuthController,
	resourceController *controllers.ResourceController,
	reservationController *controllers.ReservationController,
) {
	router.Use(middlewares.Authenticate)
	router.Use(middlewares.RequireRole(constvars.RoleAdmin))

	router.Post("/doctors", authController.RegisterDoctor)
	router.Post("/resources", resourceController.CreateResource)
	router.Put("/resources/{resourceID}/availability", resourceController.SetAvailability)

	router.Get("/reservations", reservationController.ListAllReservations)
	router.Post("/reservations/{reservationID}/cancel", reservationController.CancelReservation)
}
