package storage

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/nestegg/nestegg/internal/domain"
)

// profileID is the fixed record id for a user's single profile.
const profileID = "profile"

// GetProfile loads the user's profile.
func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := s.getRecord(ctx, userID, KindProfile, profileID, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// PutProfile creates or replaces the user's profile.
func (s *SQLiteStore) PutProfile(ctx context.Context, userID string, profile *domain.UserProfile) error {
	if err := domain.ValidateProfile(profile); err != nil {
		return err
	}
	return s.putRecord(ctx, userID, KindProfile, profileID, profile)
}

// ListAccounts returns all of the user's accounts, active and closed.
func (s *SQLiteStore) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	payloads, err := s.listRecords(ctx, userID, KindAccount)
	if err != nil {
		return nil, err
	}
	accounts := make([]domain.Account, 0, len(payloads))
	for _, payload := range payloads {
		var acct domain.Account
		if err := json.Unmarshal([]byte(payload), &acct); err != nil {
			return nil, fmt.Errorf("failed to unmarshal account record: %w", err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// GetAccount loads one account by id.
func (s *SQLiteStore) GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	var acct domain.Account
	if err := s.getRecord(ctx, userID, KindAccount, accountID, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// SaveAccount creates or replaces an account, minting an id when absent.
func (s *SQLiteStore) SaveAccount(ctx context.Context, userID string, acct *domain.Account) error {
	if acct.ID == "" {
		acct.ID = uuid.NewString()
	}
	if acct.Status == "" {
		acct.Status = domain.AccountStatusActive
	}
	if err := domain.ValidateAccount(acct); err != nil {
		return err
	}
	return s.putRecord(ctx, userID, KindAccount, acct.ID, acct)
}

// CloseAccount marks an account closed; closed accounts are kept for history
// but no longer participate in projections.
func (s *SQLiteStore) CloseAccount(ctx context.Context, userID, accountID string) error {
	acct, err := s.GetAccount(ctx, userID, accountID)
	if err != nil {
		return err
	}
	acct.Status = domain.AccountStatusClosed
	return s.putRecord(ctx, userID, KindAccount, acct.ID, acct)
}

// ListScenarios returns all of the user's scenarios.
func (s *SQLiteStore) ListScenarios(ctx context.Context, userID string) ([]domain.Scenario, error) {
	payloads, err := s.listRecords(ctx, userID, KindScenario)
	if err != nil {
		return nil, err
	}
	scenarios := make([]domain.Scenario, 0, len(payloads))
	for _, payload := range payloads {
		var sc domain.Scenario
		if err := json.Unmarshal([]byte(payload), &sc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scenario record: %w", err)
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// GetScenario loads one scenario by id.
func (s *SQLiteStore) GetScenario(ctx context.Context, userID, scenarioID string) (*domain.Scenario, error) {
	var sc domain.Scenario
	if err := s.getRecord(ctx, userID, KindScenario, scenarioID, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// SaveScenario creates or replaces a scenario, minting an id when absent.
func (s *SQLiteStore) SaveScenario(ctx context.Context, userID string, scenario *domain.Scenario) error {
	if scenario.ID == "" {
		scenario.ID = uuid.NewString()
	}
	return s.putRecord(ctx, userID, KindScenario, scenario.ID, scenario)
}

// DeleteScenario removes a scenario.
func (s *SQLiteStore) DeleteScenario(ctx context.Context, userID, scenarioID string) error {
	return s.deleteRecord(ctx, userID, KindScenario, scenarioID)
}

// SetDefaultScenario flags one scenario as default and clears the flag on
// every other scenario in the same transaction, so concurrent writers cannot
// leave two defaults behind.
func (s *SQLiteStore) SetDefaultScenario(ctx context.Context, userID, scenarioID string) error {
	scenarios, err := s.ListScenarios(ctx, userID)
	if err != nil {
		return err
	}

	found := false
	for i := range scenarios {
		if scenarios[i].ID == scenarioID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("scenario %s: %w", scenarioID, ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range scenarios {
		scenarios[i].IsDefault = scenarios[i].ID == scenarioID
		payload, err := json.Marshal(&scenarios[i])
		if err != nil {
			return fmt.Errorf("failed to marshal scenario record: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE records SET payload = ? WHERE user_id = ? AND kind = ? AND id = ?`,
			string(payload), userID, KindScenario, scenarios[i].ID); err != nil {
			return fmt.Errorf("failed to update scenario %s: %w", scenarios[i].ID, err)
		}
	}

	return tx.Commit()
}

// SaveProjection persists an engine result verbatim and returns its id.
func (s *SQLiteStore) SaveProjection(ctx context.Context, userID string, result *domain.ProjectionResult) (string, error) {
	id := uuid.NewString()
	if err := s.putRecord(ctx, userID, KindProjection, id, result); err != nil {
		return "", err
	}
	return id, nil
}

// GetProjection loads one stored projection by id.
func (s *SQLiteStore) GetProjection(ctx context.Context, userID, projectionID string) (*domain.ProjectionResult, error) {
	var result domain.ProjectionResult
	if err := s.getRecord(ctx, userID, KindProjection, projectionID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
