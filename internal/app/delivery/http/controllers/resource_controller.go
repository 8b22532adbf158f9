package controllers

import (
	"context"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"
	"medbook-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type ResourceController struct {
	Log             *zap.Logger
	ResourceUsecase contracts.ResourceUsecase
}

var (
	resourceControllerInstance *ResourceController
	onceResourceController     sync.Once
)

func NewResourceController(logger *zap.Logger, resourceUsecase contracts.ResourceUsecase) *ResourceController {
	onceResourceController.Do(func() {
		instance := &ResourceController{
			Log:             logger,
			ResourceUsecase: resourceUsecase,
		}
		resourceControllerInstance = instance
	})
	return resourceControllerInstance
}

func (ctrl *ResourceController) ListDoctors(w http.ResponseWriter, r *http.Request) {
	ctrl.listByKind(w, r, constvars.ResourceKindDoctor)
}

func (ctrl *ResourceController) ListLabs(w http.ResponseWriter, r *http.Request) {
	ctrl.listByKind(w, r, constvars.ResourceKindLab)
}

func (ctrl *ResourceController) ListMedicines(w http.ResponseWriter, r *http.Request) {
	ctrl.listByKind(w, r, constvars.ResourceKindMedicine)
}

func (ctrl *ResourceController) listByKind(w http.ResponseWriter, r *http.Request, kind string) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("ResourceController.listByKind requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	resources, err := ctrl.ResourceUsecase.ListByKind(ctx, kind)
	if err != nil {
		ctrl.Log.Error("ResourceController.listByKind error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccess, resources)
}

func (ctrl *ResourceController) GetResource(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	resourceID := chi.URLParam(r, "resourceID")
	if resourceID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamMissing("resourceID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	resource, err := ctrl.ResourceUsecase.GetByID(ctx, resourceID)
	if err != nil {
		ctrl.Log.Error("ResourceController.GetResource error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccess, resource)
}

// ListTakenSlots answers the taken map for one resource so the client can
// grey out slots before booking.
func (ctrl *ResourceController) ListTakenSlots(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	resourceID := chi.URLParam(r, "resourceID")
	if resourceID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamMissing("resourceID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	taken, err := ctrl.ResourceUsecase.ListTakenSlots(ctx, resourceID)
	if err != nil {
		ctrl.Log.Error("ResourceController.ListTakenSlots error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccess, taken)
}

func (ctrl *ResourceController) CreateResource(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("ResourceController.CreateResource requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	principal, ok := principalFromRequest(r)
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	resource := new(models.Resource)
	if err := json.NewDecoder(r.Body).Decode(resource); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	created, err := ctrl.ResourceUsecase.CreateResource(ctx, principal, resource)
	if err != nil {
		ctrl.Log.Error("ResourceController.CreateResource error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ResponseSuccess, created)
}

func (ctrl *ResourceController) SetAvailability(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	principal, ok := principalFromRequest(r)
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}

	resourceID := chi.URLParam(r, "resourceID")
	if resourceID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamMissing("resourceID"))
		return
	}

	request := new(struct {
		Available bool `json:"available"`
	})
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := ctrl.ResourceUsecase.SetAvailability(ctx, principal, resourceID, request.Available); err != nil {
		ctrl.Log.Error("ResourceController.SetAvailability error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccess, nil)
}
