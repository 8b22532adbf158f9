package controllers

import (
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"net/http"
)

func principalFromRequest(r *http.Request) (*models.Principal, bool) {
	principal, ok := r.Context().Value(constvars.CONTEXT_PRINCIPAL_KEY).(*models.Principal)
	return principal, ok && principal != nil
}
