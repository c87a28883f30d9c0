package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/tripshare/backend/internal/domain"
)

// itemShareParams bundles the three identifiers every item-share endpoint
// takes from the URL.
type itemShareParams struct {
	typ         domain.ItemType
	itemID      uuid.UUID
	companionID uuid.UUID
}

func (s *Server) itemShareParams(w http.ResponseWriter, r *http.Request) (itemShareParams, bool) {
	typ, err := pathItemType(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return itemShareParams{}, false
	}
	itemID, err := pathUUID(r, "itemID")
	if err != nil {
		writeBadRequest(w, err)
		return itemShareParams{}, false
	}
	companionID, err := pathUUID(r, "companionID")
	if err != nil {
		writeBadRequest(w, err)
		return itemShareParams{}, false
	}
	return itemShareParams{typ: typ, itemID: itemID, companionID: companionID}, true
}

// handleListItemCompanions handles GET /items/{itemType}/{itemID}/companions.
func (s *Server) handleListItemCompanions(w http.ResponseWriter, r *http.Request) {
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

	grants, err := s.sharing.ListItemCompanions(r.Context(), actor, typ, itemID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, grants)
}

// handleShareItem handles PUT /items/{itemType}/{itemID}/companions/{companionID}.
// A direct share always produces an independent grant: if the cascade had
// already granted access, the row is converted and stops tracking trip
// membership.
func (s *Server) handleShareItem(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	p, ok := s.itemShareParams(w, r)
	if !ok {
		return
	}

	var perms domain.PermissionUpdate
	if err := decodeJSON(r, &perms); err != nil {
		writeBadRequest(w, err)
		return
	}

	grant, err := s.sharing.ShareItem(r.Context(), actor, p.typ, p.itemID, p.companionID, perms)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, grant)
}

// handleUpdateItemCompanion handles PATCH /items/{itemType}/{itemID}/companions/{companionID}.
func (s *Server) handleUpdateItemCompanion(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	p, ok := s.itemShareParams(w, r)
	if !ok {
		return
	}

	var perms domain.PermissionUpdate
	if err := decodeJSON(r, &perms); err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := s.sharing.UpdateItemPermissions(r.Context(), actor, p.typ, p.itemID, p.companionID, perms); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleUnshareItem handles DELETE /items/{itemType}/{itemID}/companions/{companionID}.
func (s *Server) handleUnshareItem(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	p, ok := s.itemShareParams(w, r)
	if !ok {
		return
	}

	if err := s.sharing.UnshareItem(r.Context(), actor, p.typ, p.itemID, p.companionID); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGrantAccountPermission handles PUT /companions/{companionID}/permissions.
// The grant applies across every trip the caller owns, as the lowest-priority
// tier of permission resolution.
func (s *Server) handleGrantAccountPermission(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
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

	grant, err := s.sharing.GrantAccountPermission(r.Context(), actor, companionID, perms)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, grant)
}

// handleRevokeAccountPermission handles DELETE /companions/{companionID}/permissions.
func (s *Server) handleRevokeAccountPermission(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	companionID, err := pathUUID(r, "companionID")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	if err := s.sharing.RevokeAccountPermission(r.Context(), actor, companionID); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
