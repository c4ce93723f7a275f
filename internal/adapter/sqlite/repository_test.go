package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/neomorfeo/skucatalog/internal/adapter/sqlite"
	"github.com/neomorfeo/skucatalog/internal/domain"
)

// newTestRepo creates an in-memory SQLite repository for testing.
func newTestRepo(t *testing.T) *sqlite.SKURepository {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("creating test repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newSKU(id, code string) domain.SKU {
	return domain.NewSKU(id, domain.NewSKUInput{
		Description:           "Blue mug",
		CommercialDescription: "Blue ceramic mug",
		Code:                  code,
	})
}

func mustCreate(t *testing.T, repo *sqlite.SKURepository, sku domain.SKU) {
	t.Helper()
	if err := repo.Create(context.Background(), sku); err != nil {
		t.Fatalf("mustCreate failed: %v", err)
	}
}

func mustUpdate(t *testing.T, repo *sqlite.SKURepository, sku domain.SKU) {
	t.Helper()
	if err := repo.Update(context.Background(), sku); err != nil {
		t.Fatalf("mustUpdate failed: %v", err)
	}
}

func TestCreate_And_GetByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, newSKU("s-1", "MUG-BLUE")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "s-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.ID != "s-1" {
		t.Errorf("ID = %q, want %q", got.ID, "s-1")
	}
	if got.Description != "Blue mug" {
		t.Errorf("Description = %q, want %q", got.Description, "Blue mug")
	}
	if got.CommercialDescription != "Blue ceramic mug" {
		t.Errorf("CommercialDescription = %q, want %q", got.CommercialDescription, "Blue ceramic mug")
	}
	if got.Code != "MUG-BLUE" {
		t.Errorf("Code = %q, want %q", got.Code, "MUG-BLUE")
	}
	if got.Status != domain.StatusPreRegistration {
		t.Errorf("Status = %q, want %q", got.Status, domain.StatusPreRegistration)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should not be zero")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, domain.ErrSKUNotFound) {
		t.Errorf("expected ErrSKUNotFound, got %v", err)
	}
}

func TestCreate_DuplicateCode(t *testing.T) {
	repo := newTestRepo(t)

	mustCreate(t, repo, newSKU("s-1", "DUP"))
	err := repo.Create(context.Background(), newSKU("s-2", "DUP"))

	var conflict *domain.CodeConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected CodeConflictError, got %v", err)
	}
	if conflict.Code != "DUP" {
		t.Errorf("code = %q, want %q", conflict.Code, "DUP")
	}
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	sku := newSKU("s-1", "MUG-BLUE")
	mustCreate(t, repo, sku)

	sku.Status = domain.StatusRegistrationComplete
	sku.CommercialDescription = "Updated"

	if err := repo.Update(ctx, sku); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "s-1")
	if got.Status != domain.StatusRegistrationComplete {
		t.Errorf("Status = %q, want %q", got.Status, domain.StatusRegistrationComplete)
	}
	if got.CommercialDescription != "Updated" {
		t.Errorf("CommercialDescription = %q, want %q", got.CommercialDescription, "Updated")
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Error("UpdatedAt should not be before CreatedAt")
	}
}

func TestUpdate_DuplicateCode(t *testing.T) {
	repo := newTestRepo(t)

	mustCreate(t, repo, newSKU("s-1", "A"))
	other := newSKU("s-2", "B")
	mustCreate(t, repo, other)

	other.Code = "A"
	err := repo.Update(context.Background(), other)

	var conflict *domain.CodeConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected CodeConflictError, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Update(context.Background(), newSKU("nonexistent", "X"))
	if !errors.Is(err, domain.ErrSKUNotFound) {
		t.Errorf("expected ErrSKUNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, newSKU("s-1", "X"))

	if err := repo.Delete(ctx, "s-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, "s-1"); !errors.Is(err, domain.ErrSKUNotFound) {
		t.Errorf("expected ErrSKUNotFound after delete, got %v", err)
	}

	// The code is free again once the record is gone.
	mustCreate(t, repo, newSKU("s-2", "X"))
}

func TestDelete_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.Delete(context.Background(), "nonexistent"); !errors.Is(err, domain.ErrSKUNotFound) {
		t.Errorf("expected ErrSKUNotFound, got %v", err)
	}
}

func TestList_All(t *testing.T) {
	repo := newTestRepo(t)

	mustCreate(t, repo, newSKU("s-1", "A"))
	mustCreate(t, repo, newSKU("s-2", "B"))

	skus, err := repo.List(context.Background(), domain.ListFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(skus) != 2 {
		t.Errorf("got %d skus, want 2", len(skus))
	}
}

func TestList_Empty(t *testing.T) {
	repo := newTestRepo(t)

	skus, err := repo.List(context.Background(), domain.ListFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if skus == nil || len(skus) != 0 {
		t.Errorf("got %v, want empty non-nil slice", skus)
	}
}

func TestList_NewestFirst(t *testing.T) {
	repo := newTestRepo(t)

	older := newSKU("s-1", "A")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	mustCreate(t, repo, older)
	mustCreate(t, repo, newSKU("s-2", "B"))

	skus, err := repo.List(context.Background(), domain.ListFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(skus) != 2 || skus[0].ID != "s-2" {
		t.Errorf("got %+v, want s-2 first", skus)
	}
}

func TestList_FilterByStatus(t *testing.T) {
	repo := newTestRepo(t)

	mustCreate(t, repo, newSKU("s-1", "A"))

	s2 := newSKU("s-2", "B")
	mustCreate(t, repo, s2)

	s2.Status = domain.StatusRegistrationComplete
	mustUpdate(t, repo, s2)

	status := domain.StatusRegistrationComplete
	skus, err := repo.List(context.Background(), domain.ListFilter{Status: &status})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(skus) != 1 {
		t.Fatalf("got %d skus, want 1", len(skus))
	}
	if skus[0].ID != "s-2" {
		t.Errorf("ID = %q, want %q", skus[0].ID, "s-2")
	}
}

func TestList_Pagination(t *testing.T) {
	repo := newTestRepo(t)

	for i := range 5 {
		mustCreate(t, repo, newSKU(fmt.Sprintf("s-%d", i), fmt.Sprintf("C-%d", i)))
	}

	skus, err := repo.List(context.Background(), domain.ListFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(skus) != 2 {
		t.Errorf("got %d skus, want 2", len(skus))
	}
}

func TestList_OffsetWithoutLimit(t *testing.T) {
	repo := newTestRepo(t)

	for i := range 3 {
		mustCreate(t, repo, newSKU(fmt.Sprintf("s-%d", i), fmt.Sprintf("C-%d", i)))
	}

	skus, err := repo.List(context.Background(), domain.ListFilter{Offset: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(skus) != 1 {
		t.Errorf("got %d skus, want 1", len(skus))
	}
}
