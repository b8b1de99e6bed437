package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType identifies one of the six supported account categories.
type AccountType string

const (
	AccountTypeRetirement401k AccountType = "retirement-401k"
	AccountTypeTraditionalIRA AccountType = "traditional-ira"
	AccountTypeRothIRA        AccountType = "roth-ira"
	AccountTypeBrokerage      AccountType = "brokerage"
	AccountTypeSavings        AccountType = "savings"
	AccountTypeChecking       AccountType = "checking"
)

// AccountTypes lists every supported account type in a stable order.
var AccountTypes = []AccountType{
	AccountTypeRetirement401k,
	AccountTypeTraditionalIRA,
	AccountTypeRothIRA,
	AccountTypeBrokerage,
	AccountTypeSavings,
	AccountTypeChecking,
}

// Valid reports whether t is one of the six supported account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeRetirement401k, AccountTypeTraditionalIRA, AccountTypeRothIRA,
		AccountTypeBrokerage, AccountTypeSavings, AccountTypeChecking:
		return true
	}
	return false
}

// AccountStatus represents the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusClosed AccountStatus = "closed"
)

// Account represents a single financial account owned by a user.
type Account struct {
	ID      string          `yaml:"id" json:"id"`
	Name    string          `yaml:"name" json:"name"`
	Type    AccountType     `yaml:"type" json:"type"`
	Balance decimal.Decimal `yaml:"balance" json:"balance"`
	Status  AccountStatus   `yaml:"status" json:"status"`
}

// TypeAmounts holds one amount per account type. All six types are always
// present, so per-type arithmetic never needs a map lookup or a nil check.
type TypeAmounts struct {
	Retirement401k decimal.Decimal `yaml:"retirement_401k" json:"retirement_401k"`
	TraditionalIRA decimal.Decimal `yaml:"traditional_ira" json:"traditional_ira"`
	RothIRA        decimal.Decimal `yaml:"roth_ira" json:"roth_ira"`
	Brokerage      decimal.Decimal `yaml:"brokerage" json:"brokerage"`
	Savings        decimal.Decimal `yaml:"savings" json:"savings"`
	Checking       decimal.Decimal `yaml:"checking" json:"checking"`
}

// Get returns the amount recorded for the given account type.
func (ta *TypeAmounts) Get(t AccountType) decimal.Decimal {
	switch t {
	case AccountTypeRetirement401k:
		return ta.Retirement401k
	case AccountTypeTraditionalIRA:
		return ta.TraditionalIRA
	case AccountTypeRothIRA:
		return ta.RothIRA
	case AccountTypeBrokerage:
		return ta.Brokerage
	case AccountTypeSavings:
		return ta.Savings
	case AccountTypeChecking:
		return ta.Checking
	}
	return decimal.Zero
}

// Set replaces the amount recorded for the given account type.
func (ta *TypeAmounts) Set(t AccountType, amount decimal.Decimal) {
	switch t {
	case AccountTypeRetirement401k:
		ta.Retirement401k = amount
	case AccountTypeTraditionalIRA:
		ta.TraditionalIRA = amount
	case AccountTypeRothIRA:
		ta.RothIRA = amount
	case AccountTypeBrokerage:
		ta.Brokerage = amount
	case AccountTypeSavings:
		ta.Savings = amount
	case AccountTypeChecking:
		ta.Checking = amount
	}
}

// Add increases the amount recorded for the given account type.
func (ta *TypeAmounts) Add(t AccountType, amount decimal.Decimal) {
	ta.Set(t, ta.Get(t).Add(amount))
}

// Total sums the amounts across all six account types.
func (ta *TypeAmounts) Total() decimal.Decimal {
	return ta.Retirement401k.Add(ta.TraditionalIRA).Add(ta.RothIRA).
		Add(ta.Brokerage).Add(ta.Savings).Add(ta.Checking)
}

// AggregateBalances collapses a list of accounts into one balance per type.
// Closed accounts are excluded; individual account identity is discarded.
func AggregateBalances(accounts []Account) TypeAmounts {
	var balances TypeAmounts
	for _, acct := range accounts {
		if acct.Status != AccountStatusActive {
			continue
		}
		balances.Add(acct.Type, acct.Balance)
	}
	return balances
}

// ValidateAccount checks the structural invariants of an account record.
func ValidateAccount(acct *Account) error {
	if acct.Name == "" {
		return fmt.Errorf("account name is required")
	}
	if !acct.Type.Valid() {
		return fmt.Errorf("unknown account type %q", acct.Type)
	}
	if acct.Balance.IsNegative() {
		return fmt.Errorf("account balance cannot be negative")
	}
	if acct.Status != AccountStatusActive && acct.Status != AccountStatusClosed {
		return fmt.Errorf("account status must be %q or %q", AccountStatusActive, AccountStatusClosed)
	}
	return nil
}
