package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/expensio/expensio-backend/internal/cache"
	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/expensio/expensio-backend/internal/realtime"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// topCategoriesCount is how many categories the ranking returns
const topCategoriesCount = 3

// ExpenseNotifier dispatches change notifications without blocking the caller
type ExpenseNotifier interface {
	ExpenseChanged(action domain.ExpenseAction, expense *domain.Expense, categoryName string, changes []domain.FieldChange)
}

// ExpenseService handles expense business logic and the category aggregation
type ExpenseService struct {
	expenseRepo    domain.ExpenseRepository
	categoryRepo   domain.ExpenseCategoryRepository
	cache          cache.Cache
	notifier       ExpenseNotifier
	eventPublisher realtime.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, categoryRepo domain.ExpenseCategoryRepository, c cache.Cache, notifier ExpenseNotifier) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		cache:        c,
		notifier:     notifier,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExpenseService) SetEventPublisher(publisher realtime.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *ExpenseService) publishEvent(companyID uuid.UUID, event realtime.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(companyID, event)
	}
}

// CreateExpense validates and persists a new expense
func (s *ExpenseService) CreateExpense(companyID, categoryID, userID uuid.UUID, amount decimal.Decimal, dateProduced time.Time) (*domain.Expense, error) {
	if categoryID == uuid.Nil || userID == uuid.Nil {
		return nil, domain.ErrInvalidInput
	}
	if amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if dateProduced.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	category, err := s.categoryRepo.GetByID(companyID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.Limit != nil && amount.GreaterThan(*category.Limit) {
		return nil, domain.ErrCategoryLimitExceeded
	}

	expense := &domain.Expense{
		CompanyID:    companyID,
		CategoryID:   categoryID,
		UserID:       userID,
		Amount:       amount,
		DateProduced: dateProduced,
	}

	created, err := s.expenseRepo.Create(expense)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.cache.Del(ctx, cache.TopCategoriesKey(companyID))
	s.invalidateDateRangeKeys(ctx, companyID, categoryID)

	if s.notifier != nil {
		s.notifier.ExpenseChanged(domain.ActionCreate, created, category.Name, nil)
	}
	s.publishEvent(companyID, realtime.ExpenseCreated(created))

	return created, nil
}

// UpdateExpense patches an expense. The expense is resolved by id alone; a
// changed category is validated by id only, and the amount is not re-checked
// against the category limit.
func (s *ExpenseService) UpdateExpense(id uuid.UUID, data *domain.UpdateExpenseData) (*domain.Expense, error) {
	if data == nil || data.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}

	if data.Amount != nil && data.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if data.DateProduced != nil && data.DateProduced.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	existing, err := s.expenseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	categoryName := ""
	if data.CategoryID != nil {
		category, err := s.categoryRepo.GetByIDAnyCompany(*data.CategoryID)
		if err != nil {
			return nil, err
		}
		categoryName = category.Name
	}

	updated, err := s.expenseRepo.Update(existing.CompanyID, id, data)
	if err != nil {
		return nil, err
	}

	changes := diffExpense(existing, updated)

	ctx := context.Background()
	s.invalidateDateRangeKeys(ctx, existing.CompanyID, existing.CategoryID)
	if updated.CategoryID != existing.CategoryID {
		s.invalidateDateRangeKeys(ctx, updated.CompanyID, updated.CategoryID)
	}

	if categoryName == "" {
		categoryName = s.lookupCategoryName(updated.CategoryID)
	}

	if s.notifier != nil && len(changes) > 0 {
		s.notifier.ExpenseChanged(domain.ActionUpdate, updated, categoryName, changes)
	}
	s.publishEvent(updated.CompanyID, realtime.ExpenseUpdated(updated))

	return updated, nil
}

// SoftDeleteExpense marks an expense as deleted
func (s *ExpenseService) SoftDeleteExpense(companyID, id uuid.UUID) (*domain.Expense, error) {
	existing, err := s.expenseRepo.GetByIDAndCompany(companyID, id)
	if err != nil {
		return nil, err
	}
	if existing.DeletedAt != nil {
		return nil, domain.ErrExpenseAlreadyDeleted
	}

	deleted, err := s.expenseRepo.SoftDelete(companyID, id)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.cache.Del(ctx, cache.TopCategoriesKey(companyID))
	s.invalidateDateRangeKeys(ctx, companyID, deleted.CategoryID)

	if s.notifier != nil {
		s.notifier.ExpenseChanged(domain.ActionDelete, deleted, s.lookupCategoryName(deleted.CategoryID), nil)
	}
	s.publishEvent(companyID, realtime.ExpenseDeleted(deleted))

	return deleted, nil
}

// GetExpenses lists active expenses newest first with pagination. Superadmins
// see all companies; everyone else only their own.
func (s *ExpenseService) GetExpenses(companyID uuid.UUID, role domain.Role, filters *domain.ExpenseFilters) (*domain.PaginatedExpenses, error) {
	if filters != nil && filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, domain.ErrInvalidDateRange
	}

	scope := &companyID
	if role == domain.RoleSuperadmin {
		scope = nil
	}
	return s.expenseRepo.List(scope, filters)
}

// GetExpenseByID retrieves an expense by id within a company
func (s *ExpenseService) GetExpenseByID(companyID, id uuid.UUID) (*domain.Expense, error) {
	return s.expenseRepo.GetByIDAndCompany(companyID, id)
}

// GetTopExpenseCategories returns the three categories with the highest sum
// of active expenses, cache-aside with a 1h TTL
func (s *ExpenseService) GetTopExpenseCategories(companyID uuid.UUID) ([]*domain.CategoryTotal, error) {
	ctx := context.Background()
	key := cache.TopCategoriesKey(companyID)

	if cached, ok := s.cache.Get(ctx, key); ok {
		var totals []*domain.CategoryTotal
		if err := json.Unmarshal([]byte(cached), &totals); err == nil {
			return totals, nil
		}
		log.Warn().Str("key", key).Msg("Discarding malformed cache entry")
	}

	totals, err := s.categoryRepo.GetCategoryTotals(companyID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalExpenses.GreaterThan(totals[j].TotalExpenses)
	})
	if len(totals) > topCategoriesCount {
		totals = totals[:topCategoriesCount]
	}

	if data, err := json.Marshal(totals); err == nil {
		s.cache.Set(ctx, key, string(data), cache.DefaultTTL)
	}

	return totals, nil
}

// GetExpensesByCategoryAndDateRange returns active expenses of a category
// with dateProduced within [start, end], newest first, cache-aside with a
// 1h TTL
func (s *ExpenseService) GetExpensesByCategoryAndDateRange(companyID, categoryID uuid.UUID, start, end time.Time) ([]*domain.Expense, error) {
	if start.IsZero() || end.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if start.After(end) {
		return nil, domain.ErrInvalidDateRange
	}

	ctx := context.Background()
	key := cache.ExpensesByCategoryDateKey(companyID, categoryID, start, end)

	if cached, ok := s.cache.Get(ctx, key); ok && cached != "[]" {
		// An empty cached list is re-fetched from the store
		var expenses []*domain.Expense
		if err := json.Unmarshal([]byte(cached), &expenses); err == nil {
			return expenses, nil
		}
		log.Warn().Str("key", key).Msg("Discarding malformed cache entry")
	}

	if _, err := s.categoryRepo.GetByID(companyID, categoryID); err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.GetByCategoryAndDateRange(companyID, categoryID, start, end)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(expenses); err == nil {
		s.cache.Set(ctx, key, string(data), cache.DefaultTTL)
	}

	return expenses, nil
}

// invalidateDateRangeKeys drops every cached date-range window of a category
func (s *ExpenseService) invalidateDateRangeKeys(ctx context.Context, companyID, categoryID uuid.UUID) {
	pattern := cache.ExpensesByCategoryDatePattern(companyID, categoryID)
	keys := s.cache.Keys(ctx, pattern)
	if len(keys) > 0 {
		s.cache.Del(ctx, keys...)
	}
}

// lookupCategoryName resolves a category name for notifications, best effort
func (s *ExpenseService) lookupCategoryName(categoryID uuid.UUID) string {
	category, err := s.categoryRepo.GetByIDAnyCompany(categoryID)
	if err != nil {
		return ""
	}
	return category.Name
}

// diffExpense records the old to new transitions of the mutable expense fields
func diffExpense(before, after *domain.Expense) []domain.FieldChange {
	var changes []domain.FieldChange

	if !before.Amount.Equal(after.Amount) {
		changes = append(changes, domain.FieldChange{
			Field:    "amount",
			OldValue: before.Amount.String(),
			NewValue: after.Amount.String(),
		})
	}
	if !before.DateProduced.Equal(after.DateProduced) {
		changes = append(changes, domain.FieldChange{
			Field:    "dateProduced",
			OldValue: before.DateProduced.UTC().Format(time.RFC3339),
			NewValue: after.DateProduced.UTC().Format(time.RFC3339),
		})
	}
	if before.CategoryID != after.CategoryID {
		changes = append(changes, domain.FieldChange{
			Field:    "categoryId",
			OldValue: before.CategoryID.String(),
			NewValue: after.CategoryID.String(),
		})
	}

	return changes
}
