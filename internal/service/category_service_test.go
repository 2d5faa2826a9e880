package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/expensio/expensio-backend/internal/domain"
	"github.com/expensio/expensio-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCreateCategory_Success(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewCategoryService(repo)
	svc.SetEventPublisher(publisher)

	companyID := uuid.New()
	limit := decimal.NewFromInt(500)
	category, err := svc.CreateCategory(companyID, "  Travel  ", nil, &limit)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if category.Name != "Travel" {
		t.Errorf("Expected trimmed name Travel, got %q", category.Name)
	}
	if category.Limit == nil || !category.Limit.Equal(limit) {
		t.Error("Expected limit to be stored")
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "category.created" {
		t.Errorf("Expected category.created event, got %v", types)
	}
}

func TestCreateCategory_Validation(t *testing.T) {
	svc := NewCategoryService(testutil.NewMockCategoryRepository())
	companyID := uuid.New()

	if _, err := svc.CreateCategory(companyID, "   ", nil, nil); !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}

	long := strings.Repeat("x", domain.MaxCategoryNameLength+1)
	if _, err := svc.CreateCategory(companyID, long, nil, nil); !errors.Is(err, domain.ErrNameTooLong) {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}

	negative := decimal.NewFromInt(-1)
	if _, err := svc.CreateCategory(companyID, "Travel", nil, &negative); !errors.Is(err, domain.ErrInvalidLimit) {
		t.Errorf("Expected ErrInvalidLimit, got %v", err)
	}

	longDesc := strings.Repeat("x", domain.MaxCategoryDescriptionLength+1)
	if _, err := svc.CreateCategory(companyID, "Travel", &longDesc, nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for long description, got %v", err)
	}
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(repo)
	companyID := uuid.New()

	if _, err := svc.CreateCategory(companyID, "Travel", nil, nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := svc.CreateCategory(companyID, "Travel", nil, nil); !errors.Is(err, domain.ErrCategoryAlreadyExists) {
		t.Errorf("Expected ErrCategoryAlreadyExists, got %v", err)
	}

	// Same name in another company is fine
	if _, err := svc.CreateCategory(uuid.New(), "Travel", nil, nil); err != nil {
		t.Errorf("Expected no error for other company, got %v", err)
	}
}

func TestGetCategories_SortedByName(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(repo)
	companyID := uuid.New()

	repo.AddCategory(&domain.ExpenseCategory{CompanyID: companyID, Name: "Travel"})
	repo.AddCategory(&domain.ExpenseCategory{CompanyID: companyID, Name: "Meals"})
	repo.AddCategory(&domain.ExpenseCategory{CompanyID: uuid.New(), Name: "Other"})

	categories, err := svc.GetCategories(companyID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(categories))
	}
	if categories[0].Name != "Meals" || categories[1].Name != "Travel" {
		t.Errorf("Expected name-ascending order, got %s, %s", categories[0].Name, categories[1].Name)
	}
}

func TestUpdateCategory_EmptyPatch(t *testing.T) {
	svc := NewCategoryService(testutil.NewMockCategoryRepository())

	if _, err := svc.UpdateCategory(uuid.New(), uuid.New(), &domain.UpdateCategoryData{}); !errors.Is(err, domain.ErrEmptyUpdate) {
		t.Errorf("Expected ErrEmptyUpdate, got %v", err)
	}
	if _, err := svc.UpdateCategory(uuid.New(), uuid.New(), nil); !errors.Is(err, domain.ErrEmptyUpdate) {
		t.Errorf("Expected ErrEmptyUpdate for nil patch, got %v", err)
	}
}

func TestUpdateCategory_Success(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewCategoryService(repo)
	svc.SetEventPublisher(publisher)

	companyID := uuid.New()
	category := &domain.ExpenseCategory{CompanyID: companyID, Name: "Travel"}
	repo.AddCategory(category)

	name := " Trips "
	updated, err := svc.UpdateCategory(companyID, category.ID, &domain.UpdateCategoryData{Name: &name})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Name != "Trips" {
		t.Errorf("Expected trimmed name Trips, got %q", updated.Name)
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "category.updated" {
		t.Errorf("Expected category.updated event, got %v", types)
	}
}

func TestUpdateCategory_NotFound(t *testing.T) {
	svc := NewCategoryService(testutil.NewMockCategoryRepository())

	name := "Trips"
	_, err := svc.UpdateCategory(uuid.New(), uuid.New(), &domain.UpdateCategoryData{Name: &name})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestDeleteCategory_Success(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewCategoryService(repo)
	svc.SetEventPublisher(publisher)

	companyID := uuid.New()
	category := &domain.ExpenseCategory{CompanyID: companyID, Name: "Travel"}
	repo.AddCategory(category)

	deleted, err := svc.DeleteCategory(companyID, category.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if deleted.DeletedAt == nil {
		t.Error("Expected deletedAt to be set")
	}

	// Deleted categories disappear from lookups
	if _, err := svc.GetCategoryByID(companyID, category.ID); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound after delete, got %v", err)
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "category.deleted" {
		t.Errorf("Expected category.deleted event, got %v", types)
	}
}

func TestDeleteCategory_NotFound(t *testing.T) {
	svc := NewCategoryService(testutil.NewMockCategoryRepository())

	_, err := svc.DeleteCategory(uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}
