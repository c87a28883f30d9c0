// Package handler implements the HTTP handlers for the trip sharing API.
// All handlers are methods on Server; methods are split into domain-specific
// files (health.go, trip.go, companion.go, ...) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripshare/backend/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, actorID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, actorID, tripID uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, actorID uuid.UUID) ([]domain.Trip, error)
	Update(ctx context.Context, actorID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, actorID, tripID uuid.UUID) error
}

// CompanionServicer defines the companion and trip-membership operations the
// handlers depend on.
type CompanionServicer interface {
	CreateCompanion(ctx context.Context, actorID uuid.UUID, c domain.TravelCompanion) (domain.TravelCompanion, error)
	ListCompanions(ctx context.Context, actorID uuid.UUID) ([]domain.TravelCompanion, error)
	AddToTrip(ctx context.Context, actorID, tripID, companionID uuid.UUID, perms domain.PermissionUpdate) (domain.TripCompanion, int, error)
	RemoveFromTrip(ctx context.Context, actorID, tripID, companionID uuid.UUID) (int, error)
	UpdateTripPermissions(ctx context.Context, actorID, tripID, companionID uuid.UUID, perms domain.PermissionUpdate) (int, error)
	ListTripCompanions(ctx context.Context, actorID, tripID uuid.UUID) ([]domain.TripCompanion, error)
}

// ItemServicer defines the travel item operations the handlers depend on.
type ItemServicer interface {
	Create(ctx context.Context, actorID uuid.UUID, typ domain.ItemType, tripID *uuid.UUID, name string) (domain.ItemRef, error)
	Get(ctx context.Context, actorID uuid.UUID, typ domain.ItemType, itemID uuid.UUID) (domain.ItemRef, error)
}

// SharingServicer defines the direct-grant operations the handlers depend on.
type SharingServicer interface {
	ShareItem(ctx context.Context, actorID uuid.UUID, typ domain.ItemType, itemID, companionID uuid.UUID, perms domain.PermissionUpdate) (domain.ItemCompanion, error)
	UpdateItemPermissions(ctx context.Context, actorID uuid.UUID, typ domain.ItemType, itemID, companionID uuid.UUID, perms domain.PermissionUpdate) error
	UnshareItem(ctx context.Context, actorID uuid.UUID, typ domain.ItemType, itemID, companionID uuid.UUID) error
	ListItemCompanions(ctx context.Context, actorID uuid.UUID, typ domain.ItemType, itemID uuid.UUID) ([]domain.ItemCompanion, error)
	GrantAccountPermission(ctx context.Context, actorID, companionID uuid.UUID, perms domain.PermissionUpdate) (domain.CompanionPermission, error)
	RevokeAccountPermission(ctx context.Context, actorID, companionID uuid.UUID) error
}

// Authenticator defines the account operations the auth handlers depend on.
type Authenticator interface {
	Register(ctx context.Context, email, displayName, password string) (domain.User, error)
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Generate(user domain.User) (string, error)
}

// Server holds every handler dependency. Wire it in main.go and mount the
// router returned by Routes.
type Server struct {
	trips      TripServicer
	companions CompanionServicer
	items      ItemServicer
	sharing    SharingServicer
	accounts   Authenticator
	tokens     TokenIssuer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	trips TripServicer,
	companions CompanionServicer,
	items ItemServicer,
	sharing SharingServicer,
	accounts Authenticator,
	tokens TokenIssuer,
) *Server {
	return &Server{
		trips:      trips,
		companions: companions,
		items:      items,
		sharing:    sharing,
		accounts:   accounts,
		tokens:     tokens,
	}
}

// Routes wires every endpoint onto a chi router. requireAuth is applied to
// everything except the health check and the auth endpoints themselves.
func (s *Server) Routes(requireAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", s.handleCreateTrip)
			r.Get("/", s.handleListTrips)
			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.handleGetTrip)
				r.Put("/", s.handleUpdateTrip)
				r.Delete("/", s.handleDeleteTrip)

				r.Route("/companions", func(r chi.Router) {
					r.Get("/", s.handleListTripCompanions)
					r.Post("/", s.handleAddTripCompanion)
					r.Patch("/{companionID}", s.handleUpdateTripCompanion)
					r.Delete("/{companionID}", s.handleRemoveTripCompanion)
				})
			})
		})

		r.Route("/companions", func(r chi.Router) {
			r.Post("/", s.handleCreateCompanion)
			r.Get("/", s.handleListCompanions)
			r.Put("/{companionID}/permissions", s.handleGrantAccountPermission)
			r.Delete("/{companionID}/permissions", s.handleRevokeAccountPermission)
		})

		r.Route("/items/{itemType}", func(r chi.Router) {
			r.Post("/", s.handleCreateItem)
			r.Route("/{itemID}", func(r chi.Router) {
				r.Get("/", s.handleGetItem)
				r.Route("/companions", func(r chi.Router) {
					r.Get("/", s.handleListItemCompanions)
					r.Put("/{companionID}", s.handleShareItem)
					r.Patch("/{companionID}", s.handleUpdateItemCompanion)
					r.Delete("/{companionID}", s.handleUnshareItem)
				})
			})
		})
	})

	return r
}
