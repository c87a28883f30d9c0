package handler

import (
	"net/http"

	"github.com/google/uuid"
)

type createItemRequest struct {
	Name   string  `json:"name"`
	TripID *string `json:"trip_id"`
}

// handleCreateItem handles POST /items/{itemType}. Items may be created
// standalone (no trip) or attached to a trip the caller can edit.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	typ, err := pathItemType(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	var tripID *uuid.UUID
	if req.TripID != nil {
		id, err := parseUUIDField(*req.TripID, "trip_id")
		if err != nil {
			writeBadRequest(w, err)
			return
		}
		tripID = &id
	}

	created, err := s.items.Create(r.Context(), actor, typ, tripID, req.Name)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleGetItem handles GET /items/{itemType}/{itemID}.
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	typ, err := pathItemType(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	itemID, err := pathUUID(r, "itemID")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	item, err := s.items.Get(r.Context(), actor, typ, itemID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}
