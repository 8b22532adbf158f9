package routers

import (
	"medbook-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

// Webhooks authenticate with the gateway signature, not a session.
func attachWebhookRouter(router chi.Router, webhookController *controllers.WebhookController) {
	router.Post("/payment", webhookController.HandlePaymentWebhook)
}
