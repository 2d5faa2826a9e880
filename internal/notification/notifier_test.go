package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/google/uuid"
)

type stubUserLookup struct {
	user *domain.User
	err  error
}

func (s *stubUserLookup) GetUserByID(_ context.Context, _ uuid.UUID) (*domain.User, error) {
	return s.user, s.err
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []domain.EmailMessage
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, msg domain.EmailMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return p.err
}

func (p *recordingPublisher) published() []domain.EmailMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.EmailMessage(nil), p.messages...)
}

func TestNotifier_PublishesWhenUserHasEmail(t *testing.T) {
	users := &stubUserLookup{user: &domain.User{ID: uuid.New(), Email: "jane@example.com"}}
	publisher := &recordingPublisher{}
	notifier := NewNotifier(users, publisher)

	notifier.ExpenseChanged(domain.ActionCreate, sampleExpense(), "Travel", nil)
	notifier.Wait()

	msgs := publisher.published()
	if len(msgs) != 1 {
		t.Fatalf("Expected 1 published message, got %d", len(msgs))
	}
	if msgs[0].To != "jane@example.com" {
		t.Errorf("Expected recipient jane@example.com, got %s", msgs[0].To)
	}
	if msgs[0].Subject != "Expense created - Travel" {
		t.Errorf("Unexpected subject %q", msgs[0].Subject)
	}
}

func TestNotifier_SkipsUnknownUser(t *testing.T) {
	users := &stubUserLookup{user: nil}
	publisher := &recordingPublisher{}
	notifier := NewNotifier(users, publisher)

	notifier.ExpenseChanged(domain.ActionDelete, sampleExpense(), "Travel", nil)
	notifier.Wait()

	if len(publisher.published()) != 0 {
		t.Error("Expected no messages for unknown user")
	}
}

func TestNotifier_SkipsUserWithoutEmail(t *testing.T) {
	users := &stubUserLookup{user: &domain.User{ID: uuid.New()}}
	publisher := &recordingPublisher{}
	notifier := NewNotifier(users, publisher)

	notifier.ExpenseChanged(domain.ActionUpdate, sampleExpense(), "Travel", nil)
	notifier.Wait()

	if len(publisher.published()) != 0 {
		t.Error("Expected no messages for user without email")
	}
}

func TestNotifier_SwallowsLookupFailure(t *testing.T) {
	users := &stubUserLookup{err: errors.New("directory down")}
	publisher := &recordingPublisher{}
	notifier := NewNotifier(users, publisher)

	notifier.ExpenseChanged(domain.ActionCreate, sampleExpense(), "Travel", nil)
	notifier.Wait()

	if len(publisher.published()) != 0 {
		t.Error("Expected no messages when the directory fails")
	}
}

func TestNotifier_SwallowsPublishFailure(t *testing.T) {
	users := &stubUserLookup{user: &domain.User{ID: uuid.New(), Email: "jane@example.com"}}
	publisher := &recordingPublisher{err: errors.New("queue down")}
	notifier := NewNotifier(users, publisher)

	// Must not panic or block
	notifier.ExpenseChanged(domain.ActionCreate, sampleExpense(), "Travel", nil)
	notifier.Wait()
}
