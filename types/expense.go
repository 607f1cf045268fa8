package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// SplitPolicy determines how an expense total is divided among participants.
type SplitPolicy string

const (
	SplitPolicyEqual  SplitPolicy = "EQUAL"
	SplitPolicyCustom SplitPolicy = "CUSTOM"
)

// Valid reports whether the policy is one of the supported variants.
func (p SplitPolicy) Valid() bool {
	return p == SplitPolicyEqual || p == SplitPolicyCustom
}

// Category classifies an expense for analytics and budgeting.
type Category string

const (
	CategoryFood          Category = "FOOD"
	CategoryTransport     Category = "TRANSPORT"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryShopping      Category = "SHOPPING"
	CategoryUtilities     Category = "UTILITIES"
	CategoryHealthcare    Category = "HEALTHCARE"
	CategoryTravel        Category = "TRAVEL"
	CategoryEducation     Category = "EDUCATION"
	CategoryOther         Category = "OTHER"
)

var validCategories = map[Category]bool{
	CategoryFood:          true,
	CategoryTransport:     true,
	CategoryEntertainment: true,
	CategoryShopping:      true,
	CategoryUtilities:     true,
	CategoryHealthcare:    true,
	CategoryTravel:        true,
	CategoryEducation:     true,
	CategoryOther:         true,
}

// Valid reports whether the category is a known value.
func (c Category) Valid() bool {
	return validCategories[c]
}

// Expense is a shared expense created by one user and split among participants.
// Immutable once shares exist, except the Settled flag.
type Expense struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatorID   string          `json:"creatorId"`
	SplitPolicy SplitPolicy     `json:"splitPolicy"`
	Category    Category        `json:"category"`
	Description string          `json:"description,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Settled     bool            `json:"settled"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Shares      []ExpenseShare  `json:"shares,omitempty"`
}

// ExpenseShare is one participant's obligation for an expense. The creator's
// own portion is implicit and never stored as a share.
type ExpenseShare struct {
	ID        string          `json:"id"`
	ExpenseID string          `json:"expenseId"`
	DebtorID  string          `json:"debtorId"`
	Amount    decimal.Decimal `json:"amount"`
	Paid      bool            `json:"paid"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
}

// CreateExpenseRequest is the plain-data input for expense creation.
// CustomAmounts is required for the CUSTOM policy and must align
// one-to-one with ParticipantIDs.
type CreateExpenseRequest struct {
	Title          string            `json:"title" binding:"required"`
	TotalAmount    decimal.Decimal   `json:"totalAmount" binding:"required"`
	SplitPolicy    SplitPolicy       `json:"splitPolicy"`
	Category       Category          `json:"category"`
	Description    string            `json:"description"`
	Notes          string            `json:"notes"`
	ParticipantIDs []string          `json:"participantIds" binding:"required"`
	CustomAmounts  []decimal.Decimal `json:"customAmounts"`
}
