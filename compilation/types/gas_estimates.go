package types

import (
	"github.com/shopspring/decimal"
)

// GasEstimateInfinite is the value solc reports when a cost cannot be bounded, e.g. for loops over dynamic data.
const GasEstimateInfinite = "infinite"

// GasEstimates holds the compiler's gas estimates. Values are decimal strings or GasEstimateInfinite.
type GasEstimates struct {
	// Creation holds "codeDepositCost", "executionCost" and "totalCost" for deployment.
	Creation map[string]string `json:"creation,omitempty"`

	// External maps each external function signature to its estimated cost.
	External map[string]string `json:"external,omitempty"`

	// Internal maps each internal function signature to its estimated cost.
	Internal map[string]string `json:"internal,omitempty"`
}

// parseGasEstimate parses a single estimate. Infinite, empty and malformed values are reported as unbounded.
func parseGasEstimate(value string) (decimal.Decimal, bool) {
	if value == "" || value == GasEstimateInfinite {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// CreationTotal returns the estimated total deployment cost. If the compiler did not report a total, it is derived
// from the code deposit and execution costs. The boolean is false when the cost is unbounded or unknown.
func (g *GasEstimates) CreationTotal() (decimal.Decimal, bool) {
	if g == nil || g.Creation == nil {
		return decimal.Zero, false
	}
	if total, ok := g.Creation["totalCost"]; ok {
		return parseGasEstimate(total)
	}
	deposit, depositOk := parseGasEstimate(g.Creation["codeDepositCost"])
	execution, executionOk := parseGasEstimate(g.Creation["executionCost"])
	if !depositOk || !executionOk {
		return decimal.Zero, false
	}
	return deposit.Add(execution), true
}

// ExternalCost returns the estimated cost of calling the external function with the given signature.
func (g *GasEstimates) ExternalCost(signature string) (decimal.Decimal, bool) {
	if g == nil || g.External == nil {
		return decimal.Zero, false
	}
	return parseGasEstimate(g.External[signature])
}
