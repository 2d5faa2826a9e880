package service

import (
	"strings"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/expensio/expensio-backend/internal/realtime"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryService handles expense category business logic
type CategoryService struct {
	categoryRepo   domain.ExpenseCategoryRepository
	eventPublisher realtime.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.ExpenseCategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CategoryService) SetEventPublisher(publisher realtime.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *CategoryService) publishEvent(companyID uuid.UUID, event realtime.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(companyID, event)
	}
}

// CreateCategory creates a new expense category
func (s *CategoryService) CreateCategory(companyID uuid.UUID, name string, description *string, limit *decimal.Decimal) (*domain.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}
	if description != nil && len(*description) > domain.MaxCategoryDescriptionLength {
		return nil, domain.ErrInvalidInput
	}
	if limit != nil && limit.IsNegative() {
		return nil, domain.ErrInvalidLimit
	}

	category := &domain.ExpenseCategory{
		CompanyID:   companyID,
		Name:        name,
		Description: description,
		Limit:       limit,
	}

	created, err := s.categoryRepo.Create(category)
	if err != nil {
		return nil, err
	}

	s.publishEvent(companyID, realtime.CategoryCreated(created))
	return created, nil
}

// GetCategories retrieves all active categories of a company, name ascending
func (s *CategoryService) GetCategories(companyID uuid.UUID) ([]*domain.ExpenseCategory, error) {
	return s.categoryRepo.GetAllByCompany(companyID)
}

// GetCategoryByID retrieves an active category by ID within a company
func (s *CategoryService) GetCategoryByID(companyID, id uuid.UUID) (*domain.ExpenseCategory, error) {
	return s.categoryRepo.GetByID(companyID, id)
}

// UpdateCategory patches a category; nil fields are left unchanged
func (s *CategoryService) UpdateCategory(companyID, id uuid.UUID, data *domain.UpdateCategoryData) (*domain.ExpenseCategory, error) {
	if data == nil || data.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}

	if data.Name != nil {
		name := strings.TrimSpace(*data.Name)
		if name == "" {
			return nil, domain.ErrNameRequired
		}
		if len(name) > domain.MaxCategoryNameLength {
			return nil, domain.ErrNameTooLong
		}
		data.Name = &name
	}
	if data.Description != nil && len(*data.Description) > domain.MaxCategoryDescriptionLength {
		return nil, domain.ErrInvalidInput
	}
	if data.Limit != nil && data.Limit.IsNegative() {
		return nil, domain.ErrInvalidLimit
	}

	updated, err := s.categoryRepo.Update(companyID, id, data)
	if err != nil {
		return nil, err
	}

	s.publishEvent(companyID, realtime.CategoryUpdated(updated))
	return updated, nil
}

// DeleteCategory soft-deletes a category and returns the final row
func (s *CategoryService) DeleteCategory(companyID, id uuid.UUID) (*domain.ExpenseCategory, error) {
	deleted, err := s.categoryRepo.SoftDelete(companyID, id)
	if err != nil {
		return nil, err
	}

	s.publishEvent(companyID, realtime.CategoryDeleted(deleted))
	return deleted, nil
}
