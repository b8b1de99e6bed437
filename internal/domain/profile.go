package domain

import (
	"fmt"
	"time"

	"github.com/nestegg/nestegg/pkg/dateutil"
)

// MaritalStatus is recorded on the profile for downstream planning features.
type MaritalStatus string

const (
	MaritalStatusSingle  MaritalStatus = "single"
	MaritalStatusMarried MaritalStatus = "married"
)

// UserProfile holds the personal facts a projection depends on. Age is never
// stored; it is derived from the birth date at whatever reference date the
// caller supplies.
type UserProfile struct {
	BirthDate     time.Time     `yaml:"birth_date" json:"birth_date"`
	MaritalStatus MaritalStatus `yaml:"marital_status" json:"marital_status"`
	Dependents    int           `yaml:"dependents" json:"dependents"`
}

// Age returns the profile holder's age at the given date.
func (p *UserProfile) Age(at time.Time) int {
	return dateutil.Age(p.BirthDate, at)
}

// ValidateProfile checks the structural invariants of a profile record.
func ValidateProfile(p *UserProfile) error {
	if p.BirthDate.IsZero() {
		return fmt.Errorf("birth date is required")
	}
	if p.MaritalStatus != MaritalStatusSingle && p.MaritalStatus != MaritalStatusMarried {
		return fmt.Errorf("marital status must be %q or %q", MaritalStatusSingle, MaritalStatusMarried)
	}
	if p.Dependents < 0 {
		return fmt.Errorf("dependent count cannot be negative")
	}
	return nil
}
