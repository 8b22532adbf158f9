package routers

import (
	"medbook-service/internal/app/delivery/http/controllers"
	"medbook-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachReservationRouter(
	router chi.Router,
	middlewares *middlewares.Middlewares,
	reservationController *controllers.ReservationController,
	paymentController *controllers.PaymentController,
) {
	router.Use(middlewares.Authenticate)

	router.Get("/", reservationController.ListReservations)
	router.Post("/appointments", reservationController.CreateDoctorAppointment)
	router.Post("/lab-appointments", reservationController.CreateLabAppointment)
	router.Post("/orders", reservationController.CreateMedicineOrder)

	router.Get("/{reservationID}", reservationController.GetReservation)
	router.Post("/{reservationID}/cancel", reservationController.CancelReservation)

	router.Post("/{reservationID}/payment/order", paymentController.CreateOrder)
	router.Post("/{reservationID}/payment/verify", paymentController.VerifyPayment)
}
