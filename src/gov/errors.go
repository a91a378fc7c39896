package gov

import "errors"

// Engine errors. Every failed operation aborts its whole transaction and
// surfaces exactly one of these, possibly wrapped with context.
var (
	// Authorization
	ErrUnauthorized = errors.New("unauthorized")

	// Validation
	ErrStringTooLong       = errors.New("string exceeds maximum length")
	ErrInvalidThreshold    = errors.New("invalid threshold parameters")
	ErrInvalidVotingPeriod = errors.New("invalid voting period")
	ErrInvalidPolicy       = errors.New("invalid policy variant")
	ErrInvalidMint         = errors.New("invalid platform asset")
	ErrInvalidDaoMint      = errors.New("invalid dao asset")
	ErrInvalidDirection    = errors.New("invalid vote direction")

	// Insufficiency
	ErrInsufficientPlatformTokens = errors.New("insufficient platform tokens")
	ErrInsufficientDaoTokens      = errors.New("insufficient dao tokens")
	ErrInsufficientStake          = errors.New("insufficient stake")
	ErrInsufficientFunds          = errors.New("insufficient funds")

	// Arithmetic
	ErrOverflow    = errors.New("treasury balance overflow")
	ErrCalculation = errors.New("calculation error")

	// Lifecycle
	ErrAlreadyInitialized    = errors.New("registry already initialized")
	ErrNotInitialized        = errors.New("registry not initialized")
	ErrAlreadyExists         = errors.New("record already exists")
	ErrNotFound              = errors.New("record not found")
	ErrVotingPeriodEnded     = errors.New("voting period ended")
	ErrVotingPeriodNotEnded  = errors.New("voting period has not ended yet")
	ErrAlreadyVoted          = errors.New("voter already voted on this proposal")
	ErrAlreadyFinalized      = errors.New("proposal already finalized")
	ErrNotFinalized          = errors.New("proposal not finalized")
	ErrRewardsAlreadyClaimed = errors.New("rewards already claimed")
)

// Error kinds, used by the HTTP layer to pick a status code.
const (
	KindAuthorization = "authorization"
	KindValidation    = "validation"
	KindInsufficiency = "insufficiency"
	KindArithmetic    = "arithmetic"
	KindLifecycle     = "lifecycle"
	KindNotFound      = "not_found"
	KindInternal      = "internal"
)

// Kind classifies an engine error into its taxonomy bucket.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return KindAuthorization
	case errors.Is(err, ErrStringTooLong),
		errors.Is(err, ErrInvalidThreshold),
		errors.Is(err, ErrInvalidVotingPeriod),
		errors.Is(err, ErrInvalidPolicy),
		errors.Is(err, ErrInvalidMint),
		errors.Is(err, ErrInvalidDaoMint),
		errors.Is(err, ErrInvalidDirection):
		return KindValidation
	case errors.Is(err, ErrInsufficientPlatformTokens),
		errors.Is(err, ErrInsufficientDaoTokens),
		errors.Is(err, ErrInsufficientStake),
		errors.Is(err, ErrInsufficientFunds):
		return KindInsufficiency
	case errors.Is(err, ErrOverflow),
		errors.Is(err, ErrCalculation):
		return KindArithmetic
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrNotInitialized):
		return KindNotFound
	case errors.Is(err, ErrAlreadyInitialized),
		errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrVotingPeriodEnded),
		errors.Is(err, ErrVotingPeriodNotEnded),
		errors.Is(err, ErrAlreadyVoted),
		errors.Is(err, ErrAlreadyFinalized),
		errors.Is(err, ErrNotFinalized),
		errors.Is(err, ErrRewardsAlreadyClaimed):
		return KindLifecycle
	default:
		return KindInternal
	}
}
