package routers

import (
	"medbook-service/internal/app/config"
	"medbook-service/internal/app/delivery/http/controllers"
	"medbook-service/internal/app/delivery/http/middlewares"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	resourceController *controllers.ResourceController,
	reservationController *controllers.ReservationController,
	paymentController *controllers.PaymentController,
	webhookController *controllers.WebhookController,
	prescriptionController *controllers.PrescriptionController,
) {

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))
	router.Use(middlewares.ErrorHandler)

	router.Route(internalConfig.App.EndpointPrefix, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			attachAuthRouter(r, middlewares, authController)
		})

		r.Route("/me", func(r chi.Router) {
			attachUserRouter(r, middlewares, userController)
		})

		attachCatalogRouter(r, middlewares, resourceController)

		r.Route("/reservations", func(r chi.Router) {
			attachReservationRouter(r, middlewares, reservationController, paymentController)
		})

		r.Route("/prescriptions", func(r chi.Router) {
			attachPrescriptionRouter(r, middlewares, prescriptionController)
		})

		r.Route("/admin", func(r chi.Router) {
			attachAdminRouter(r, middlewares, authController, resourceController, reservationController)
		})

		r.Route("/webhooks", func(r chi.Router) {
			attachWebhookRouter(r, webhookController)
		})
	})
}
