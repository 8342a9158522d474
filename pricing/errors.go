package pricing

import "fmt"

// SecurityPricingError wraps a single security's pricing failure so the
// Aggregator can isolate it per §7 while still reporting which security
// failed and why.
type SecurityPricingError struct {
	SecurityID string
	Err        error
}

func (e *SecurityPricingError) Error() string {
	return fmt.Sprintf("pricing.PriceDeal: security %q: %v", e.SecurityID, e.Err)
}

func (e *SecurityPricingError) Unwrap() error { return e.Err }
