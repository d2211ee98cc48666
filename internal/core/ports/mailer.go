package ports

import (
	"context"

	"github.com/userhub/identity-system/internal/core/domain"
)

// Mailer sends the transactional mails of the account flows. Implementations
// may deliver asynchronously; a nil return only means the message was
// accepted for delivery.
type Mailer interface {
	// SendConfirmationMail mails the email-verification link issued at
	// registration.
	SendConfirmationMail(ctx context.Context, user *domain.User, token string) error
	// SendPasswordResetMail mails the password-reset link.
	SendPasswordResetMail(ctx context.Context, user *domain.User, token string) error
	// SendWelcomeMail mails the post-verification welcome message.
	SendWelcomeMail(ctx context.Context, user *domain.User) error
}
