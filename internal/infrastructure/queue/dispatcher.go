package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
	sendTimeout    = 30 * time.Second
)

type mailKind int

const (
	mailConfirmation mailKind = iota
	mailPasswordReset
	mailWelcome
)

type mailJob struct {
	kind  mailKind
	user  domain.User
	token string
}

// MailDispatcher decouples the account flows from SMTP latency: it
// implements ports.Mailer by enqueueing and routes jobs to a fixed set of
// workers sharded on the recipient address, so mails to the same account
// keep their order. Delivery failures are logged; the flows have already
// committed by the time a job runs.
type MailDispatcher struct {
	workers []chan mailJob
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a MailDispatcher delivering through mailer with
// numWorkers sharded workers. If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan mailJob, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan mailJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

func (d *MailDispatcher) SendConfirmationMail(_ context.Context, user *domain.User, token string) error {
	d.enqueue(mailJob{kind: mailConfirmation, user: *user, token: token})
	return nil
}

func (d *MailDispatcher) SendPasswordResetMail(_ context.Context, user *domain.User, token string) error {
	d.enqueue(mailJob{kind: mailPasswordReset, user: *user, token: token})
	return nil
}

func (d *MailDispatcher) SendWelcomeMail(_ context.Context, user *domain.User) error {
	d.enqueue(mailJob{kind: mailWelcome, user: *user})
	return nil
}

// enqueue routes the job to the worker responsible for its recipient.
// Non-blocking up to channelBuffer capacity.
func (d *MailDispatcher) enqueue(job mailJob) {
	d.workers[d.shardIndex(job.user.Email)] <- job
}

// shardIndex maps a recipient address deterministically to a worker index.
func (d *MailDispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan mailJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			err := d.deliver(sendCtx, job)
			cancel()
			if err != nil {
				d.log.Error().Err(err).
					Str("email", job.user.Email).
					Int("worker_id", id).
					Msg("mail delivery failed")
			}
		}
	}
}

func (d *MailDispatcher) deliver(ctx context.Context, job mailJob) error {
	switch job.kind {
	case mailConfirmation:
		return d.mailer.SendConfirmationMail(ctx, &job.user, job.token)
	case mailPasswordReset:
		return d.mailer.SendPasswordResetMail(ctx, &job.user, job.token)
	default:
		return d.mailer.SendWelcomeMail(ctx, &job.user)
	}
}
