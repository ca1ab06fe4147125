package exchange

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/swapdesk/internal/domain"
)

var (
	// ErrRetryable marks an exchange that failed to settle and may be submitted again.
	ErrRetryable = errors.New("exchange not settled, retry")
	// ErrNotIdle is returned when Execute is called while an exchange is in flight or settled.
	ErrNotIdle = errors.New("exchange session is not idle")
	// ErrNegativeBalance balances are non-negative only.
	ErrNegativeBalance = errors.New("balance must not be negative")
)

// Kind classifies user-visible session errors.
type Kind int

const (
	// KindBounds base equivalent outside the allowed range.
	KindBounds Kind = iota + 1
	// KindBalance spending side exceeds the balance.
	KindBalance
	// KindInvalidAmount a field does not hold a number at submit time.
	KindInvalidAmount
	// KindExecution the balance change could not be applied.
	KindExecution
)

func (k Kind) String() string {
	switch k {
	case KindBounds:
		return "bounds"
	case KindBalance:
		return "balance"
	case KindInvalidAmount:
		return "invalid_amount"
	case KindExecution:
		return "execution"
	default:
		return "unknown"
	}
}

const (
	msgInvalidAmounts = "Please enter valid amounts"
	msgExecFailed     = "Exchange failed, please try again"
)

// ValidationError is the single active error shown to the user.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func minError(pair domain.Pair, min fmt.Stringer) *ValidationError {
	return &ValidationError{Kind: KindBounds, Message: fmt.Sprintf("Minimum %s amount is %s", pair.From, min)}
}

func maxError(pair domain.Pair, max fmt.Stringer) *ValidationError {
	return &ValidationError{Kind: KindBounds, Message: fmt.Sprintf("Maximum %s amount is %s", pair.From, max)}
}

func insufficientError(pair domain.Pair, c domain.Currency) *ValidationError {
	return &ValidationError{Kind: KindBalance, Message: fmt.Sprintf("Insufficient %s balance", pair.Code(c))}
}

// RetryableError wraps the cause of a failed settlement.
// errors.Is(err, ErrRetryable) holds for it.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return ErrRetryable.Error() + ": " + e.Err.Error()
}

// Is reports ErrRetryable as a match.
func (e *RetryableError) Is(target error) bool {
	return target == ErrRetryable
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}
