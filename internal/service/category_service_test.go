package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreateAndList(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())

	created, err := svc.Create(context.Background(), "Invoices")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	categories, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Invoices", categories[0].Name)
}

func TestCategoryDuplicateNameConflicts(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())

	_, err := svc.Create(context.Background(), "Invoices")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "Invoices")
	requireCode(t, err, "CONFLICT", http.StatusConflict)
}

func TestCategoryUpdate(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())

	created, err := svc.Create(context.Background(), "Invoices")
	require.NoError(t, err)
	other, err := svc.Create(context.Background(), "Receipts")
	require.NoError(t, err)

	// renaming to its own name is allowed
	_, err = svc.Update(context.Background(), created.ID, "Invoices")
	assert.NoError(t, err)

	// name held by another category conflicts
	_, err = svc.Update(context.Background(), other.ID, "Invoices")
	requireCode(t, err, "CONFLICT", http.StatusConflict)

	_, err = svc.Update(context.Background(), uuid.NewString(), "Anything")
	requireCode(t, err, "NOT_FOUND", http.StatusNotFound)
}

func TestCategoryDelete(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())

	created, err := svc.Create(context.Background(), "Invoices")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	requireCode(t, svc.Delete(context.Background(), created.ID), "NOT_FOUND", http.StatusNotFound)
}
