package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/expensio/expensio-backend/internal/realtime"
	"github.com/google/uuid"
)

// MockCategoryRepository is a mock implementation of domain.ExpenseCategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.ExpenseCategory
	Totals     []*domain.CategoryTotal

	CreateFn            func(category *domain.ExpenseCategory) (*domain.ExpenseCategory, error)
	UpdateFn            func(companyID, id uuid.UUID, data *domain.UpdateCategoryData) (*domain.ExpenseCategory, error)
	SoftDeleteFn        func(companyID, id uuid.UUID) (*domain.ExpenseCategory, error)
	GetCategoryTotalsFn func(companyID uuid.UUID) ([]*domain.CategoryTotal, error)
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.ExpenseCategory),
	}
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.ExpenseCategory) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	m.Categories[category.ID] = category
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.ExpenseCategory) (*domain.ExpenseCategory, error) {
	if m.CreateFn != nil {
		return m.CreateFn(category)
	}
	for _, existing := range m.Categories {
		if existing.CompanyID == category.CompanyID && existing.Name == category.Name && existing.DeletedAt == nil {
			return nil, domain.ErrCategoryAlreadyExists
		}
	}
	category.ID = uuid.New()
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves an active category by id within a company
func (m *MockCategoryRepository) GetByID(companyID, id uuid.UUID) (*domain.ExpenseCategory, error) {
	category, ok := m.Categories[id]
	if !ok || category.CompanyID != companyID || category.DeletedAt != nil {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

// GetByIDAnyCompany retrieves an active category by id regardless of company
func (m *MockCategoryRepository) GetByIDAnyCompany(id uuid.UUID) (*domain.ExpenseCategory, error) {
	category, ok := m.Categories[id]
	if !ok || category.DeletedAt != nil {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

// GetAllByCompany retrieves all active categories of a company, name ascending
func (m *MockCategoryRepository) GetAllByCompany(companyID uuid.UUID) ([]*domain.ExpenseCategory, error) {
	var categories []*domain.ExpenseCategory
	for _, category := range m.Categories {
		if category.CompanyID == companyID && category.DeletedAt == nil {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// Update patches an active category
func (m *MockCategoryRepository) Update(companyID, id uuid.UUID, data *domain.UpdateCategoryData) (*domain.ExpenseCategory, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(companyID, id, data)
	}
	category, err := m.GetByID(companyID, id)
	if err != nil {
		return nil, err
	}
	if data.Name != nil {
		category.Name = *data.Name
	}
	if data.Description != nil {
		category.Description = data.Description
	}
	if data.Limit != nil {
		category.Limit = data.Limit
	}
	category.UpdatedAt = time.Now()
	return category, nil
}

// SoftDelete marks an active category as deleted
func (m *MockCategoryRepository) SoftDelete(companyID, id uuid.UUID) (*domain.ExpenseCategory, error) {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(companyID, id)
	}
	category, err := m.GetByID(companyID, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	category.DeletedAt = &now
	category.UpdatedAt = now
	return category, nil
}

// GetCategoryTotals returns the configured totals
func (m *MockCategoryRepository) GetCategoryTotals(companyID uuid.UUID) ([]*domain.CategoryTotal, error) {
	if m.GetCategoryTotalsFn != nil {
		return m.GetCategoryTotalsFn(companyID)
	}
	return m.Totals, nil
}

var _ domain.ExpenseCategoryRepository = (*MockCategoryRepository)(nil)

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[uuid.UUID]*domain.Expense

	CreateFn     func(expense *domain.Expense) (*domain.Expense, error)
	UpdateFn     func(companyID, id uuid.UUID, data *domain.UpdateExpenseData) (*domain.Expense, error)
	SoftDeleteFn func(companyID, id uuid.UUID) (*domain.Expense, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[uuid.UUID]*domain.Expense),
	}
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	m.Expenses[expense.ID] = expense
}

// Create inserts a new expense
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	expense.ID = uuid.New()
	now := time.Now()
	expense.CreatedAt = now
	expense.UpdatedAt = now
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetByID retrieves an expense by id regardless of company or deletion state
func (m *MockExpenseRepository) GetByID(id uuid.UUID) (*domain.Expense, error) {
	expense, ok := m.Expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	return expense, nil
}

// GetByIDAndCompany retrieves an expense by id within a company
func (m *MockExpenseRepository) GetByIDAndCompany(companyID, id uuid.UUID) (*domain.Expense, error) {
	expense, ok := m.Expenses[id]
	if !ok || expense.CompanyID != companyID {
		return nil, domain.ErrExpenseNotFound
	}
	return expense, nil
}

// List returns active expenses newest first with pagination
func (m *MockExpenseRepository) List(companyID *uuid.UUID, filters *domain.ExpenseFilters) (*domain.PaginatedExpenses, error) {
	var matched []*domain.Expense
	for _, expense := range m.Expenses {
		if expense.DeletedAt != nil {
			continue
		}
		if companyID != nil && expense.CompanyID != *companyID {
			continue
		}
		if filters != nil {
			if filters.CategoryID != nil && expense.CategoryID != *filters.CategoryID {
				continue
			}
			if filters.StartDate != nil && expense.DateProduced.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && expense.DateProduced.After(*filters.EndDate) {
				continue
			}
		}
		matched = append(matched, expense)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].DateProduced.After(matched[j].DateProduced)
	})

	page := 1
	pageSize := domain.DefaultPageSize
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
			if pageSize > domain.MaxPageSize {
				pageSize = domain.MaxPageSize
			}
		}
	}

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &domain.PaginatedExpenses{
		Expenses: matched[start:end],
		Pagination: domain.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// GetByCategoryAndDateRange returns active expenses of a category in range
func (m *MockExpenseRepository) GetByCategoryAndDateRange(companyID, categoryID uuid.UUID, start, end time.Time) ([]*domain.Expense, error) {
	expenses := make([]*domain.Expense, 0)
	for _, expense := range m.Expenses {
		if expense.DeletedAt != nil || expense.CompanyID != companyID || expense.CategoryID != categoryID {
			continue
		}
		if expense.DateProduced.Before(start) || expense.DateProduced.After(end) {
			continue
		}
		expenses = append(expenses, expense)
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].DateProduced.After(expenses[j].DateProduced)
	})
	return expenses, nil
}

// Update patches an expense
func (m *MockExpenseRepository) Update(companyID, id uuid.UUID, data *domain.UpdateExpenseData) (*domain.Expense, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(companyID, id, data)
	}
	expense, ok := m.Expenses[id]
	if !ok || expense.CompanyID != companyID {
		return nil, domain.ErrExpenseNotFound
	}
	updated := *expense
	if data.Amount != nil {
		updated.Amount = *data.Amount
	}
	if data.DateProduced != nil {
		updated.DateProduced = *data.DateProduced
	}
	if data.CategoryID != nil {
		updated.CategoryID = *data.CategoryID
	}
	updated.UpdatedAt = time.Now()
	m.Expenses[id] = &updated
	return &updated, nil
}

// SoftDelete marks an expense as deleted
func (m *MockExpenseRepository) SoftDelete(companyID, id uuid.UUID) (*domain.Expense, error) {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(companyID, id)
	}
	expense, ok := m.Expenses[id]
	if !ok || expense.CompanyID != companyID || expense.DeletedAt != nil {
		return nil, domain.ErrExpenseNotFound
	}
	now := time.Now()
	expense.DeletedAt = &now
	expense.UpdatedAt = now
	return expense, nil
}

var _ domain.ExpenseRepository = (*MockExpenseRepository)(nil)

// MockCompanyRepository is a mock implementation of domain.CompanyRepository
type MockCompanyRepository struct {
	Companies map[uuid.UUID]bool
	ExistsFn  func(id uuid.UUID) (bool, error)
}

// NewMockCompanyRepository creates a new MockCompanyRepository
func NewMockCompanyRepository() *MockCompanyRepository {
	return &MockCompanyRepository{Companies: make(map[uuid.UUID]bool)}
}

// AddCompany registers a known company id
func (m *MockCompanyRepository) AddCompany(id uuid.UUID) {
	m.Companies[id] = true
}

// Exists reports whether the company id is known
func (m *MockCompanyRepository) Exists(id uuid.UUID) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(id)
	}
	return m.Companies[id], nil
}

var _ domain.CompanyRepository = (*MockCompanyRepository)(nil)

// MockCache is an in-memory cache.Cache that records operations
type MockCache struct {
	mu      sync.Mutex
	Entries map[string]string

	GetCalls []string
	SetCalls []string
	DelCalls []string
}

// NewMockCache creates a new MockCache
func NewMockCache() *MockCache {
	return &MockCache{Entries: make(map[string]string)}
}

// Get returns the cached value if present
func (m *MockCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, key)
	value, ok := m.Entries[key]
	return value, ok
}

// Set stores a value; the TTL is ignored
func (m *MockCache) Set(_ context.Context, key, value string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls = append(m.SetCalls, key)
	m.Entries[key] = value
}

// Del removes keys
func (m *MockCache) Del(_ context.Context, keys ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		m.DelCalls = append(m.DelCalls, key)
		delete(m.Entries, key)
	}
}

// Keys matches keys against a trailing-* glob
func (m *MockCache) Keys(_ context.Context, pattern string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for key := range m.Entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Healthcheck always reports healthy
func (m *MockCache) Healthcheck(_ context.Context) bool {
	return true
}

// Deleted reports whether a key was ever passed to Del
func (m *MockCache) Deleted(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, deleted := range m.DelCalls {
		if deleted == key {
			return true
		}
	}
	return false
}

// MockNotifier records expense change notifications
type MockNotifier struct {
	mu    sync.Mutex
	Calls []NotifierCall
}

// NotifierCall is one recorded ExpenseChanged invocation
type NotifierCall struct {
	Action       domain.ExpenseAction
	Expense      *domain.Expense
	CategoryName string
	Changes      []domain.FieldChange
}

// NewMockNotifier creates a new MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// ExpenseChanged records the call
func (m *MockNotifier) ExpenseChanged(action domain.ExpenseAction, expense *domain.Expense, categoryName string, changes []domain.FieldChange) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, NotifierCall{
		Action:       action,
		Expense:      expense,
		CategoryName: categoryName,
		Changes:      changes,
	})
}

// CallCount returns the number of recorded notifications
func (m *MockNotifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockEventPublisher records published realtime events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// PublishedEvent is one recorded Publish invocation
type PublishedEvent struct {
	CompanyID uuid.UUID
	Event     realtime.Event
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(companyID uuid.UUID, event realtime.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{CompanyID: companyID, Event: event})
}

// EventTypes returns the recorded event types in order
func (m *MockEventPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.Event.Type)
	}
	return types
}

var _ realtime.EventPublisher = (*MockEventPublisher)(nil)
