package handler

import (
	"net/http"

	"github.com/pkordes/tripshare/backend/internal/domain"
)

type companionRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type addTripCompanionRequest struct {
	CompanionID string                  `json:"companion_id"`
	Permissions domain.PermissionUpdate `json:"permissions"`
}

// cascadeResponse wraps a membership change with the number of travel items
// the change was propagated to.
type cascadeResponse struct {
	Companion     any `json:"companion,omitempty"`
	ItemsCascaded int `json:"items_cascaded"`
}

// handleCreateCompanion handles POST /companions.
func (s *Server) handleCreateCompanion(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var req companionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	created, err := s.companions.CreateCompanion(r.Context(), actor, domain.TravelCompanion{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleListCompanions handles GET /companions.
func (s *Server) handleListCompanions(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	companions, err := s.companions.ListCompanions(r.Context(), actor)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, companions)
}

// handleListTripCompanions handles GET /trips/{tripID}/companions.
func (s *Server) handleListTripCompanions(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	members, err := s.companions.ListTripCompanions(r.Context(), actor, tripID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

// handleAddTripCompanion handles POST /trips/{tripID}/companions. Adding a
// companion to a trip cascades a grant onto every item on the trip; the
// response reports how many items were touched.
func (s *Server) handleAddTripCompanion(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	var req addTripCompanionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	companionID, err := parseUUIDField(req.CompanionID, "companion_id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	member, cascaded, err := s.companions.AddToTrip(r.Context(), actor, tripID, companionID, req.Permissions)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, cascadeResponse{Companion: member, ItemsCascaded: cascaded})
}

// handleUpdateTripCompanion handles PATCH /trips/{tripID}/companions/{companionID}.
// Non-nil permission fields are applied to the membership and to every
// cascaded item grant; omitted fields are left untouched.
func (s *Server) handleUpdateTripCompanion(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	companionID, err := pathUUID(r, "companionID")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	var perms domain.PermissionUpdate
	if err := decodeJSON(r, &perms); err != nil {
		writeBadRequest(w, err)
		return
	}

	cascaded, err := s.companions.UpdateTripPermissions(r.Context(), actor, tripID, companionID, perms)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, cascadeResponse{ItemsCascaded: cascaded})
}

// handleRemoveTripCompanion handles DELETE /trips/{tripID}/companions/{companionID}.
// Only grants the cascade created are removed from the trip's items; direct
// per-item shares survive.
func (s *Server) handleRemoveTripCompanion(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	companionID, err := pathUUID(r, "companionID")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	cascaded, err := s.companions.RemoveFromTrip(r.Context(), actor, tripID, companionID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, cascadeResponse{ItemsCascaded: cascaded})
}
