// Package split computes per-participant obligations for a shared expense.
// It is pure computation: no storage access, deterministic for a given input.
package split

import (
	"fmt"

	apperrors "github.com/quickbill-app/quickbill-backend/errors"
	"github.com/quickbill-app/quickbill-backend/types"
	"github.com/shopspring/decimal"
)

// Allocation is the result of splitting an expense total. Shares holds the
// amount owed by each participant; CreatorShare is the creator's implicit
// portion, which is never persisted as a share record.
type Allocation struct {
	CreatorShare decimal.Decimal
	Shares       map[string]decimal.Decimal
}

// Total returns the sum of all shares plus the creator's implicit share.
// It always equals the expense total for a valid allocation.
func (a Allocation) Total() decimal.Decimal {
	total := a.CreatorShare
	for _, amount := range a.Shares {
		total = total.Add(amount)
	}
	return total
}

// Allocate divides totalAmount among participantIDs plus the creator
// according to policy.
//
// EQUAL: each participant owes totalAmount / (N+1) rounded to two decimal
// places (half away from zero). The creator absorbs the rounding remainder,
// so the sum of
// shares plus the creator share equals the total exactly. The creator share
// may therefore differ from the per-head amount by a few cents.
//
// CUSTOM: customAmounts must align one-to-one with participantIDs and each
// value must be strictly positive. The creator's implicit share is
// totalAmount minus the sum of custom amounts and must not be negative.
func Allocate(totalAmount decimal.Decimal, participantIDs []string, policy types.SplitPolicy, customAmounts []decimal.Decimal) (Allocation, error) {
	if !totalAmount.IsPositive() {
		return Allocation{}, apperrors.ValidationFailed("Expense total must be positive", totalAmount.String())
	}
	if len(participantIDs) == 0 {
		return Allocation{}, apperrors.ValidationFailed("At least one participant is required", "")
	}
	seen := make(map[string]bool, len(participantIDs))
	for _, id := range participantIDs {
		if id == "" {
			return Allocation{}, apperrors.ValidationFailed("Participant ID must not be empty", "")
		}
		if seen[id] {
			return Allocation{}, apperrors.ValidationFailed("Duplicate participant", id)
		}
		seen[id] = true
	}

	switch policy {
	case types.SplitPolicyEqual:
		return allocateEqual(totalAmount, participantIDs)
	case types.SplitPolicyCustom:
		return allocateCustom(totalAmount, participantIDs, customAmounts)
	default:
		return Allocation{}, apperrors.ValidationFailed("Unknown split policy", string(policy))
	}
}

func allocateEqual(totalAmount decimal.Decimal, participantIDs []string) (Allocation, error) {
	headCount := int64(len(participantIDs)) + 1

	// DivRound rounds the cent half away from zero.
	perHead := totalAmount.DivRound(decimal.NewFromInt(headCount), 2)
	creatorShare := totalAmount.Sub(perHead.Mul(decimal.NewFromInt(headCount - 1)))

	if !perHead.IsPositive() || !creatorShare.IsPositive() {
		return Allocation{}, apperrors.ValidationFailed(
			"Expense total is too small to split among all participants",
			fmt.Sprintf("total %s across %d people", totalAmount, headCount),
		)
	}

	shares := make(map[string]decimal.Decimal, len(participantIDs))
	for _, id := range participantIDs {
		shares[id] = perHead
	}
	return Allocation{CreatorShare: creatorShare, Shares: shares}, nil
}

func allocateCustom(totalAmount decimal.Decimal, participantIDs []string, customAmounts []decimal.Decimal) (Allocation, error) {
	if len(customAmounts) == 0 {
		return Allocation{}, apperrors.SplitMismatch("custom amounts are required for the CUSTOM policy")
	}
	if len(customAmounts) != len(participantIDs) {
		return Allocation{}, apperrors.SplitMismatch(
			fmt.Sprintf("%d participants, %d custom amounts", len(participantIDs), len(customAmounts)),
		)
	}

	sum := decimal.Zero
	shares := make(map[string]decimal.Decimal, len(participantIDs))
	for i, id := range participantIDs {
		amount := customAmounts[i]
		if !amount.IsPositive() {
			return Allocation{}, apperrors.ValidationFailed("Custom split amounts must be positive", amount.String())
		}
		shares[id] = amount
		sum = sum.Add(amount)
	}

	creatorShare := totalAmount.Sub(sum)
	if creatorShare.IsNegative() {
		return Allocation{}, apperrors.NegativeShare(
			fmt.Sprintf("custom sum %s exceeds total %s", sum, totalAmount),
		)
	}

	return Allocation{CreatorShare: creatorShare, Shares: shares}, nil
}
