package service

import (
	"context"
	"errors"
	"testing"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductStore is an in-memory implementation of the ProductStore interface
type mockProductStore struct {
	products  []store.Product
	loadError error
	saveError error
	saved     []store.Product
	saves     int
}

// Simulate reading the collection; hands out a copy like a real read would
func (m *mockProductStore) LoadAll(_ context.Context) ([]store.Product, error) {
	if m.loadError != nil {
		return nil, m.loadError
	}
	return append([]store.Product{}, m.products...), nil
}

// Simulate writing the collection
func (m *mockProductStore) SaveAll(_ context.Context, products []store.Product) error {
	m.saves++
	if m.saveError != nil {
		return m.saveError
	}
	m.saved = products
	m.products = append([]store.Product{}, products...)
	return nil
}

func strPtr(s string) *string {
	return &s
}

func newTestService(m *mockProductStore) *Service {
	return NewService(m, validation.New())
}

func Test_ProductService_FindAll(t *testing.T) {
	ErrStoreError := errors.New("store error")
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		expected    []ProductDto
		expectError error
	}{
		{
			name:      "Success - products found",
			mockStore: &mockProductStore{products: []store.Product{{ID: 1, Name: "Caneta", Price: 2.5}}},
			expected:  []ProductDto{{ID: 1, Name: "Caneta", Price: 2.5}},
		},
		{
			name:      "Success - no products",
			mockStore: &mockProductStore{products: []store.Product{}},
			expected:  []ProductDto{},
		},
		{
			name:        "Error - store error",
			mockStore:   &mockProductStore{loadError: ErrStoreError},
			expectError: ErrStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := newTestService(tc.mockStore)
			// when
			found, err := service.FindAll(context.Background())
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_ProductService_FindByID(t *testing.T) {
	mockStore := &mockProductStore{products: []store.Product{
		{ID: 1, Name: "Caneta", Price: 2.5},
		{ID: 3, Name: "Lapis", Price: 1},
	}}
	testCases := []struct {
		name        string
		productID   int64
		expected    *ProductDto
		expectError error
	}{
		{
			name:      "Success - product found",
			productID: 3,
			expected:  &ProductDto{ID: 3, Name: "Lapis", Price: 1},
		},
		{
			name:        "Error - product not found",
			productID:   2,
			expectError: perrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := newTestService(mockStore)
			// when
			found, err := service.FindByID(context.Background(), tc.productID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_ProductService_Create(t *testing.T) {
	ErrStoreError := errors.New("disk full")
	testCases := []struct {
		name           string
		mockStore      *mockProductStore
		input          ProductCreateDto
		expected       *ProductDto
		expectMessages []string
		expectError    error
		expectSaves    int
	}{
		{
			name:        "Success - first product gets id 1, fields trimmed",
			mockStore:   &mockProductStore{products: []store.Product{}},
			input:       ProductCreateDto{Name: "  Caneta ", Price: NewPrice(2.5), Description: " Azul "},
			expected:    &ProductDto{ID: 1, Name: "Caneta", Price: 2.5, Description: "Azul"},
			expectSaves: 1,
		},
		{
			name:        "Success - id is max plus one",
			mockStore:   &mockProductStore{products: []store.Product{{ID: 1, Name: "Caneta", Price: 1}, {ID: 3, Name: "Lapis", Price: 1}}},
			input:       ProductCreateDto{Name: "Borracha", Price: NewPrice(0.5)},
			expected:    &ProductDto{ID: 4, Name: "Borracha", Price: 0.5},
			expectSaves: 1,
		},
		{
			name:           "Error - duplicate name ignoring case",
			mockStore:      &mockProductStore{products: []store.Product{{ID: 1, Name: "Mouse", Price: 50}}},
			input:          ProductCreateDto{Name: "mouse", Price: NewPrice(40)},
			expectMessages: []string{validation.MsgNameTaken},
		},
		{
			name:           "Error - all violations reported together",
			mockStore:      &mockProductStore{products: []store.Product{}},
			input:          ProductCreateDto{Name: "Widget1", Price: NewPrice(0), Description: "50%"},
			expectMessages: []string{validation.MsgNameLettersOnly, validation.MsgPricePositive, validation.MsgDescriptionCharset},
		},
		{
			name:           "Error - missing price",
			mockStore:      &mockProductStore{products: []store.Product{}},
			input:          ProductCreateDto{Name: "Caneta"},
			expectMessages: []string{validation.MsgPricePositive},
		},
		{
			name:        "Error - store load error",
			mockStore:   &mockProductStore{loadError: ErrStoreError},
			input:       ProductCreateDto{Name: "Caneta", Price: NewPrice(1)},
			expectError: ErrStoreError,
		},
		{
			name:        "Error - store save error",
			mockStore:   &mockProductStore{products: []store.Product{}, saveError: ErrStoreError},
			input:       ProductCreateDto{Name: "Caneta", Price: NewPrice(1)},
			expectError: ErrStoreError,
			expectSaves: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := newTestService(tc.mockStore)
			// when
			created, err := service.Create(context.Background(), tc.input)
			// then
			assert.Equal(t, tc.expectSaves, tc.mockStore.saves, "number of saves should match")
			if tc.expectMessages != nil {
				var validationErr *perrors.ValidationError
				require.True(t, errors.As(err, &validationErr))
				assert.Equal(t, tc.expectMessages, validationErr.Messages)
				assert.Nil(t, created)
				return
			}
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, created)
			assert.Equal(t, created.ID, tc.mockStore.saved[len(tc.mockStore.saved)-1].ID, "created product is appended last")
		})
	}
}

func Test_ProductService_Update(t *testing.T) {
	seed := func() *mockProductStore {
		return &mockProductStore{products: []store.Product{
			{ID: 1, Name: "Caneta", Price: 2.5, Description: "Azul"},
			{ID: 2, Name: "Lapis", Price: 1},
		}}
	}
	testCases := []struct {
		name           string
		productID      int64
		input          ProductUpdateDto
		expected       *ProductDto
		expectMessages []string
		expectError    error
	}{
		{
			name:      "Success - only price supplied",
			productID: 1,
			input:     ProductUpdateDto{Price: NewPrice(3.0)},
			expected:  &ProductDto{ID: 1, Name: "Caneta", Price: 3.0, Description: "Azul"},
		},
		{
			name:      "Success - rename keeping own name in different case",
			productID: 1,
			input:     ProductUpdateDto{Name: strPtr(" CANETA ")},
			expected:  &ProductDto{ID: 1, Name: "CANETA", Price: 2.5, Description: "Azul"},
		},
		{
			name:      "Success - description cleared",
			productID: 1,
			input:     ProductUpdateDto{Description: strPtr("")},
			expected:  &ProductDto{ID: 1, Name: "Caneta", Price: 2.5, Description: ""},
		},
		{
			name:           "Error - name taken by another product",
			productID:      1,
			input:          ProductUpdateDto{Name: strPtr("lapis")},
			expectMessages: []string{validation.MsgNameTaken},
		},
		{
			name:           "Error - non numeric price",
			productID:      1,
			input:          ProductUpdateDto{Price: PriceInput{Value: nan(), Set: true}},
			expectMessages: []string{validation.MsgPricePositive},
		},
		{
			name:        "Error - product not found",
			productID:   9,
			input:       ProductUpdateDto{Price: NewPrice(3.0)},
			expectError: perrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockStore := seed()
			before := append([]store.Product{}, mockStore.products...)
			service := newTestService(mockStore)
			// when
			updated, err := service.Update(context.Background(), tc.productID, tc.input)
			// then
			if tc.expectMessages != nil || tc.expectError != nil {
				if tc.expectMessages != nil {
					var validationErr *perrors.ValidationError
					require.True(t, errors.As(err, &validationErr))
					assert.Equal(t, tc.expectMessages, validationErr.Messages)
				} else {
					assert.ErrorIs(t, err, tc.expectError)
				}
				assert.Nil(t, updated)
				assert.Zero(t, mockStore.saves, "nothing is persisted on failure")
				assert.Equal(t, before, mockStore.products)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, updated)
			assert.Equal(t, 1, mockStore.saves)
			assert.Equal(t, tc.expected.ID, mockStore.saved[0].ID, "position in the collection is kept")
			assert.Len(t, mockStore.saved, 2)
		})
	}
}

func Test_ProductService_DeleteByID(t *testing.T) {
	testCases := []struct {
		name        string
		productID   int64
		expected    []store.Product
		expectError error
	}{
		{
			name:      "Success - product deleted",
			productID: 1,
			expected:  []store.Product{{ID: 2, Name: "Lapis", Price: 1}},
		},
		{
			name:        "Error - product not found leaves collection untouched",
			productID:   5,
			expectError: perrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockStore := &mockProductStore{products: []store.Product{
				{ID: 1, Name: "Caneta", Price: 2.5},
				{ID: 2, Name: "Lapis", Price: 1},
			}}
			service := newTestService(mockStore)
			// when
			err := service.DeleteByID(context.Background(), tc.productID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Zero(t, mockStore.saves)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, mockStore.saved)
		})
	}
}

func Test_ProductService_IDsNotReusedAfterDelete(t *testing.T) {
	// given
	mockStore := &mockProductStore{products: []store.Product{}}
	service := newTestService(mockStore)
	ctx := context.Background()
	first, err := service.Create(ctx, ProductCreateDto{Name: "Caneta", Price: NewPrice(1)})
	require.NoError(t, err)
	second, err := service.Create(ctx, ProductCreateDto{Name: "Lapis", Price: NewPrice(1)})
	require.NoError(t, err)

	// when
	require.NoError(t, service.DeleteByID(ctx, first.ID))
	third, err := service.Create(ctx, ProductCreateDto{Name: "Borracha", Price: NewPrice(1)})

	// then
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, int64(3), third.ID)
}
