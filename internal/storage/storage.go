// Package storage implements the record store: key-value persistence keyed
// by (user, record kind, record id) over SQLite. Values are JSON payloads,
// so the schema never changes when a record type grows a field.
package storage

import (
	"context"
	"errors"

	"github.com/nestegg/nestegg/internal/domain"
)

// Record kinds persisted in the store.
const (
	KindProfile    = "profile"
	KindAccount    = "account"
	KindScenario   = "scenario"
	KindProjection = "projection"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence interface consumed by the HTTP layer.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	PutProfile(ctx context.Context, userID string, profile *domain.UserProfile) error

	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error)
	SaveAccount(ctx context.Context, userID string, acct *domain.Account) error
	CloseAccount(ctx context.Context, userID, accountID string) error

	ListScenarios(ctx context.Context, userID string) ([]domain.Scenario, error)
	GetScenario(ctx context.Context, userID, scenarioID string) (*domain.Scenario, error)
	SaveScenario(ctx context.Context, userID string, scenario *domain.Scenario) error
	DeleteScenario(ctx context.Context, userID, scenarioID string) error
	SetDefaultScenario(ctx context.Context, userID, scenarioID string) error

	SaveProjection(ctx context.Context, userID string, result *domain.ProjectionResult) (string, error)
	GetProjection(ctx context.Context, userID, projectionID string) (*domain.ProjectionResult, error)

	Close() error
}
