package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/tripshare/backend/internal/domain"
)

type tripRequest struct {
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Notes     string     `json:"notes"`
}

// handleCreateTrip handles POST /trips.
func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var req tripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	created, err := s.trips.Create(r.Context(), actor, domain.Trip{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleListTrips handles GET /trips. It lists only the trips the caller owns.
func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	trips, err := s.trips.List(r.Context(), actor)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, trips)
}

// handleGetTrip handles GET /trips/{tripID}.
func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
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

	trip, err := s.trips.GetByID(r.Context(), actor, tripID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// handleUpdateTrip handles PUT /trips/{tripID}.
func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
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

	var req tripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	updated, err := s.trips.Update(r.Context(), actor, domain.Trip{
		ID:        tripID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
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

	if err := s.trips.Delete(r.Context(), actor, tripID); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
