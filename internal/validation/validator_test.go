package validation

import (
	"math"
	"testing"

	"github.com/abgdnv/catalog/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Validator_Validate(t *testing.T) {
	existing := []store.Product{
		{ID: 1, Name: "Mouse", Price: 50},
		{ID: 2, Name: "Teclado", Price: 120, Description: "Mecânico, ABNT2!"},
	}
	testCases := []struct {
		name      string
		candidate store.Product
		isUpdate  bool
		expected  []string
	}{
		{
			name:      "Valid - minimal",
			candidate: store.Product{ID: 3, Name: "Caneta", Price: 2.5},
			expected:  []string{},
		},
		{
			name:      "Valid - accents, spaces and description punctuation",
			candidate: store.Product{ID: 3, Name: "Pão de Açúcar", Price: 9.99, Description: "Pacote com 12 unidades. Ótimo, não?"},
			expected:  []string{},
		},
		{
			name:      "Invalid - digit in name",
			candidate: store.Product{ID: 3, Name: "Widget1", Price: 10},
			expected:  []string{MsgNameLettersOnly},
		},
		{
			name:      "Invalid - symbol in name",
			candidate: store.Product{ID: 3, Name: "Caneta-azul", Price: 10},
			expected:  []string{MsgNameLettersOnly},
		},
		{
			name:      "Invalid - empty name",
			candidate: store.Product{ID: 3, Name: "", Price: 10},
			expected:  []string{MsgNameLettersOnly},
		},
		{
			name:      "Invalid - duplicate name ignoring case",
			candidate: store.Product{ID: 3, Name: "mouse", Price: 10},
			expected:  []string{MsgNameTaken},
		},
		{
			name:      "Valid - update keeps its own name",
			candidate: store.Product{ID: 1, Name: "MOUSE", Price: 55},
			isUpdate:  true,
			expected:  []string{},
		},
		{
			name:      "Invalid - update takes another record's name",
			candidate: store.Product{ID: 1, Name: "teclado", Price: 55},
			isUpdate:  true,
			expected:  []string{MsgNameTaken},
		},
		{
			name:      "Invalid - zero price",
			candidate: store.Product{ID: 3, Name: "Caneta", Price: 0},
			expected:  []string{MsgPricePositive},
		},
		{
			name:      "Invalid - negative price",
			candidate: store.Product{ID: 3, Name: "Caneta", Price: -5},
			expected:  []string{MsgPricePositive},
		},
		{
			name:      "Invalid - NaN price",
			candidate: store.Product{ID: 3, Name: "Caneta", Price: math.NaN()},
			expected:  []string{MsgPricePositive},
		},
		{
			name:      "Invalid - infinite price",
			candidate: store.Product{ID: 3, Name: "Caneta", Price: math.Inf(1)},
			expected:  []string{MsgPricePositive},
		},
		{
			name:      "Invalid - description with forbidden symbol",
			candidate: store.Product{ID: 3, Name: "Caneta", Price: 2, Description: "50% off"},
			expected:  []string{MsgDescriptionCharset},
		},
		{
			name:      "Invalid - every rule at once, in order",
			candidate: store.Product{ID: 3, Name: "Mouse", Price: -1, Description: "<script>"},
			expected:  []string{MsgNameTaken, MsgPricePositive, MsgDescriptionCharset},
		},
		{
			name:      "Invalid - charset and price together",
			candidate: store.Product{ID: 3, Name: "R2D2", Price: 0, Description: "#1"},
			expected:  []string{MsgNameLettersOnly, MsgPricePositive, MsgDescriptionCharset},
		},
	}

	v := New()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			violations := v.Validate(tc.candidate, existing, tc.isUpdate)

			// then
			assert.Equal(t, tc.expected, Messages(violations))
		})
	}
}

func Test_Validator_Rules(t *testing.T) {
	v := New()
	testCases := []struct {
		rule      string
		candidate store.Product
		existing  []store.Product
		isUpdate  bool
		expected  bool
	}{
		{rule: RuleNameCharset, candidate: store.Product{Name: "Caderno universitario"}, expected: true},
		{rule: RuleNameCharset, candidate: store.Product{Name: "Caderno 10"}, expected: false},
		{rule: RuleNameCharset, candidate: store.Product{Name: "Caderno!"}, expected: false},
		{rule: RuleNameUnique, candidate: store.Product{ID: 2, Name: "Lapis"}, existing: []store.Product{{ID: 1, Name: "LAPIS"}}, expected: false},
		{rule: RuleNameUnique, candidate: store.Product{ID: 1, Name: "Lapis"}, existing: []store.Product{{ID: 1, Name: "LAPIS"}}, isUpdate: true, expected: true},
		{rule: RuleNameUnique, candidate: store.Product{ID: 1, Name: "Lapis"}, existing: []store.Product{{ID: 1, Name: "LAPIS"}}, isUpdate: false, expected: false},
		{rule: RuleNameUnique, candidate: store.Product{ID: 2, Name: "Borracha"}, existing: nil, expected: true},
		{rule: RulePricePositive, candidate: store.Product{Price: 9.99}, expected: true},
		{rule: RulePricePositive, candidate: store.Product{Price: 0}, expected: false},
		{rule: RuleDescriptionCharset, candidate: store.Product{Description: ""}, expected: true},
		{rule: RuleDescriptionCharset, candidate: store.Product{Description: "Ponta fina 0.7, azul!"}, expected: true},
		{rule: RuleDescriptionCharset, candidate: store.Product{Description: "azul & preto"}, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.rule, func(t *testing.T) {
			// given
			rule, ok := v.Rule(tc.rule)
			require.True(t, ok)

			// when
			got := rule.Check(tc.candidate, tc.existing, tc.isUpdate)

			// then
			assert.Equal(t, tc.expected, got)
		})
	}
}

func Test_Validator_UnknownRule(t *testing.T) {
	_, ok := New().Rule("missing")
	assert.False(t, ok)
}

func Test_Messages_Deduplicates(t *testing.T) {
	violations := []Violation{
		{Rule: RulePricePositive, Field: "price", Message: MsgPricePositive},
		{Rule: "price_parse", Field: "price", Message: MsgPricePositive},
	}
	assert.Equal(t, []string{MsgPricePositive}, Messages(violations))
}
