package notification

import (
	"context"
	"sync"
	"time"

	"github.com/expensio/expensio-backend/internal/directory"
	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// publishTimeout bounds a single lookup-render-publish cycle
const publishTimeout = 15 * time.Second

// Notifier dispatches expense change notifications in the background.
// Failures never propagate to the caller: the expense mutation has already
// committed, so a broken directory or queue only costs the e-mail.
type Notifier struct {
	users     directory.UserLookup
	publisher Publisher
	wg        sync.WaitGroup
}

// NewNotifier creates a Notifier
func NewNotifier(users directory.UserLookup, publisher Publisher) *Notifier {
	return &Notifier{users: users, publisher: publisher}
}

// ExpenseChanged starts a background notification for an expense mutation.
// It returns immediately.
func (n *Notifier) ExpenseChanged(action domain.ExpenseAction, expense *domain.Expense, categoryName string, changes []domain.FieldChange) {
	data := &domain.ExpenseNotification{
		Action:       action,
		ActionDate:   time.Now(),
		Expense:      expense,
		CategoryName: categoryName,
		Changes:      changes,
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		n.notify(ctx, data)
	}()
}

// Wait blocks until all in-flight notifications are done. Used on shutdown.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) notify(ctx context.Context, data *domain.ExpenseNotification) {
	user, err := n.users.GetUserByID(ctx, data.Expense.UserID)
	if err != nil {
		log.Warn().Err(err).
			Str("expense_id", data.Expense.ID.String()).
			Str("user_id", data.Expense.UserID.String()).
			Msg("Failed to resolve user for notification")
		return
	}
	if user == nil || user.Email == "" {
		log.Debug().
			Str("expense_id", data.Expense.ID.String()).
			Str("user_id", data.Expense.UserID.String()).
			Msg("No email for user, skipping notification")
		return
	}

	data.UserEmail = user.Email
	msg := RenderEmail(data)

	if err := n.publisher.Publish(ctx, msg); err != nil {
		log.Warn().Err(err).
			Str("expense_id", data.Expense.ID.String()).
			Str("to", msg.To).
			Msg("Failed to publish notification")
		return
	}

	log.Debug().
		Str("expense_id", data.Expense.ID.String()).
		Str("action", string(data.Action)).
		Msg("Notification published")
}
