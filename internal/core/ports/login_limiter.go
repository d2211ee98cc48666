package ports

import "context"

// LoginLimiter throttles repeated failed credential checks per account.
type LoginLimiter interface {
	// TooManyAttempts reports whether the account is currently locked out.
	TooManyAttempts(ctx context.Context, email string) (bool, error)
	// RecordFailure counts one failed attempt.
	RecordFailure(ctx context.Context, email string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, email string) error
}
