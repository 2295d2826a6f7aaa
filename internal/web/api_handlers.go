package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/evcraddock/garage/internal/logging"
	"github.com/evcraddock/garage/internal/record"
	"github.com/evcraddock/garage/internal/vehicle"
	"github.com/evcraddock/garage/internal/visit"
)

// apiError writes a JSON error response. Clients show message verbatim.
func apiError(w http.ResponseWriter, msg string, code int) {
	apiJSON(w, map[string]string{"message": msg}, code)
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.L().Warn("encoding response", zap.Error(err))
	}
}

// internalError logs err and answers with a generic 500.
func internalError(w http.ResponseWriter, op string, err error) {
	logging.L().Error(op, zap.Error(err))
	apiError(w, "Internal server error", http.StatusInternalServerError)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		apiError(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apiError(w, "Invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

// firstInvalid runs every field validator of schema over entity and returns
// the first failure as "Label: message", or "" when all pass.
func firstInvalid[T any](schema *record.Schema[T], entity T) string {
	for _, f := range schema.Fields() {
		if msg := f.Validate(f.Get(entity)); msg != "" {
			return fmt.Sprintf("%s: %s", f.Label, msg)
		}
	}
	return ""
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.catalog.Models()
	if err != nil {
		internalError(w, "listing models", err)
		return
	}
	apiJSON(w, models, http.StatusOK)
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := s.vehicles.GetByID(id)
	if err != nil {
		s.vehicleError(w, "getting vehicle", err)
		return
	}
	apiJSON(w, v, http.StatusOK)
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var v vehicle.Vehicle
	if !decodeBody(w, r, &v) {
		return
	}
	if v.UserID == 0 {
		apiError(w, "Customer is required", http.StatusBadRequest)
		return
	}
	if !s.prepareVehicle(w, &v) {
		return
	}

	created, err := s.vehicles.Insert(&v)
	if err != nil {
		s.vehicleError(w, "creating vehicle", err)
		return
	}
	apiJSON(w, created, http.StatusCreated)
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var v vehicle.Vehicle
	if !decodeBody(w, r, &v) {
		return
	}
	if !s.prepareVehicle(w, &v) {
		return
	}

	updated, err := s.vehicles.Update(id, &v)
	if err != nil {
		s.vehicleError(w, "updating vehicle", err)
		return
	}
	apiJSON(w, updated, http.StatusOK)
}

// prepareVehicle validates v and resolves its catalog model id.
func (s *Server) prepareVehicle(w http.ResponseWriter, v *vehicle.Vehicle) bool {
	if msg := firstInvalid(vehicle.Schema(), *v); msg != "" {
		apiError(w, msg, http.StatusBadRequest)
		return false
	}
	modelID, err := s.catalog.LookupModel(v.Manufacturer, v.ModelName)
	if err != nil {
		internalError(w, "resolving model", err)
		return false
	}
	v.ModelID = modelID
	return true
}

func (s *Server) vehicleError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, vehicle.ErrNotFound), errors.Is(err, vehicle.ErrUnknownCustomer):
		apiError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, vehicle.ErrDuplicateVIN):
		apiError(w, err.Error(), http.StatusConflict)
	default:
		internalError(w, op, err)
	}
}

func (s *Server) handleGetVisit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := s.visits.GetByID(id)
	if err != nil {
		visitError(w, "getting visit", err)
		return
	}
	apiJSON(w, v, http.StatusOK)
}

func (s *Server) handleCreateVisit(w http.ResponseWriter, r *http.Request) {
	var v visit.Visit
	if !decodeBody(w, r, &v) {
		return
	}
	if v.VehicleID == 0 {
		apiError(w, "Vehicle is required", http.StatusBadRequest)
		return
	}
	if v.VisitStatus == "" {
		v.VisitStatus = visit.NotStarted
	}
	if msg := firstInvalid(visit.Schema(), v); msg != "" {
		apiError(w, msg, http.StatusBadRequest)
		return
	}
	if v.CarSegment == "" {
		owner, err := s.vehicles.GetByID(v.VehicleID)
		if err != nil {
			visitError(w, "loading visit vehicle", err)
			return
		}
		v.CarSegment = owner.CarSegment
	}

	created, err := s.visits.Insert(&v)
	if err != nil {
		visitError(w, "creating visit", err)
		return
	}
	apiJSON(w, created, http.StatusCreated)
}

func (s *Server) handleUpdateVisit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var v visit.Visit
	if !decodeBody(w, r, &v) {
		return
	}
	if msg := firstInvalid(visit.Schema(), v); msg != "" {
		apiError(w, msg, http.StatusBadRequest)
		return
	}

	updated, err := s.visits.Update(id, &v)
	if err != nil {
		visitError(w, "updating visit", err)
		return
	}
	apiJSON(w, updated, http.StatusOK)
}

func visitError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, visit.ErrNotFound), errors.Is(err, visit.ErrUnknownVehicle),
		errors.Is(err, vehicle.ErrNotFound):
		apiError(w, err.Error(), http.StatusNotFound)
	default:
		internalError(w, op, err)
	}
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.catalog.Services(r.URL.Query().Get("carSegment"))
	if err != nil {
		internalError(w, "listing services", err)
		return
	}
	apiJSON(w, services, http.StatusOK)
}

func (s *Server) handleListParts(w http.ResponseWriter, r *http.Request) {
	parts, err := s.catalog.Parts(r.URL.Query().Get("carSegment"))
	if err != nil {
		internalError(w, "listing parts", err)
		return
	}
	apiJSON(w, parts, http.StatusOK)
}
