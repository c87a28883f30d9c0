package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripshare/backend/internal/domain"
	"github.com/pkordes/tripshare/backend/internal/middleware"
)

// actorID returns the authenticated user's id from the request context.
// Routes behind the auth middleware always have one; a missing id means a
// wiring mistake, reported as 500 by the caller.
func actorID(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		return uuid.Nil, fmt.Errorf("no authenticated user in context")
	}
	return id, nil
}

// pathUUID parses the named chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// parseUUIDField parses a UUID carried in a JSON body field.
func parseUUIDField(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// pathItemType parses the {itemType} chi URL parameter against the closed
// item-type set.
func pathItemType(r *http.Request) (domain.ItemType, error) {
	return domain.ParseItemType(chi.URLParam(r, "itemType"))
}

// decodeJSON decodes the request body into dst, rejecting unknown fields so
// typos in permission names fail loudly instead of silently granting nothing.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
