package pincode

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
)

// Reasons reported in Result.Reason.
const (
	ReasonAvailable     = "available"
	ReasonUnavailable   = "unavailable"
	ReasonInvalidFormat = "invalid_format"
)

// ErrStaleVerification means the caller went away before the strategy
// answered. The answer must not be applied.
var ErrStaleVerification = pkgerrors.New(pkgerrors.CodeStale, "pincode verification superseded")

// Result is the customer-facing outcome of a verification. Invalid input and
// unserviceable pincodes are results, not errors.
type Result struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Pincode  string `json:"pincode"`
	Category string `json:"category,omitempty"`
	Reason   string `json:"reason"`
}

// Verifier validates input and asks a Strategy with a deadline.
type Verifier struct {
	strategy Strategy
	timeout  time.Duration
}

// NewVerifier wraps strategy. A zero timeout disables the deadline.
func NewVerifier(strategy Strategy, timeout time.Duration) (*Verifier, error) {
	if strategy == nil {
		return nil, fmt.Errorf("pincode strategy required")
	}
	return &Verifier{strategy: strategy, timeout: timeout}, nil
}

type checkOutcome struct {
	verdict Verdict
	err     error
}

// Verify checks code. Malformed input never reaches the strategy.
//
// Errors: CodeStale when ctx ends first, CodeTimeout when the verifier's own
// deadline passes, CodeDependency for strategy failures.
func (v *Verifier) Verify(ctx context.Context, code string) (Result, error) {
	normalized, err := Validate(code)
	if err != nil {
		return Result{Success: false, Message: InvalidFormatMessage, Pincode: code, Reason: ReasonInvalidFormat}, nil
	}

	callCtx := ctx
	cancel := func() {}
	if v.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, v.timeout)
	}
	defer cancel()

	done := make(chan checkOutcome, 1)
	go func() {
		verdict, err := v.strategy.Check(callCtx, normalized)
		done <- checkOutcome{verdict: verdict, err: err}
	}()

	var outcome checkOutcome
	select {
	case outcome = <-done:
	case <-callCtx.Done():
		outcome = checkOutcome{err: callCtx.Err()}
	}

	if ctx.Err() != nil {
		return Result{}, ErrStaleVerification
	}
	if outcome.err != nil {
		if errors.Is(outcome.err, context.DeadlineExceeded) || callCtx.Err() != nil {
			return Result{}, pkgerrors.Wrap(pkgerrors.CodeTimeout, outcome.err, "pincode verification timed out")
		}
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, outcome.err, "pincode verification unavailable")
	}

	verdict := outcome.verdict
	if !verdict.Available {
		message := verdict.Message
		if message == "" {
			message = fmt.Sprintf("sorry, we do not deliver to %s yet", normalized)
		}
		return Result{Success: false, Message: message, Pincode: normalized, Reason: ReasonUnavailable}, nil
	}
	message := verdict.Message
	if message == "" {
		message = fmt.Sprintf("delivery available to %s", normalized)
	}
	return Result{
		Success:  true,
		Message:  message,
		Pincode:  normalized,
		Category: verdict.Category,
		Reason:   ReasonAvailable,
	}, nil
}
