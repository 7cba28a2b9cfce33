package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/abgdnv/catalog/internal/store"
)

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	Name        string     `json:"name"`
	Price       PriceInput `json:"price"`
	Description string     `json:"description"`
}

// ProductUpdateDto carries the fields to change on an existing product.
// Absent or null fields keep their stored value.
type ProductUpdateDto struct {
	Name        *string    `json:"name"`
	Price       PriceInput `json:"price"`
	Description *string    `json:"description"`
}

// PriceInput is a price as sent by a client: a JSON number or a numeric string.
// Values that are not numbers decode to NaN so that validation reports them instead of the decoder.
type PriceInput struct {
	Value float64
	Set   bool
}

// NewPrice returns a PriceInput holding value.
func NewPrice(value float64) PriceInput {
	return PriceInput{Value: value, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PriceInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = PriceInput{}
		return nil
	}
	p.Set = true
	p.Value = math.NaN()

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		p.Value = v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			p.Value = f
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p PriceInput) MarshalJSON() ([]byte, error) {
	if !p.Set || math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// value returns the parsed price, NaN when no price was supplied.
func (p PriceInput) value() float64 {
	if !p.Set {
		return math.NaN()
	}
	return p.Value
}

// toDto converts a store.Product to a ProductDto.
func toDto(product store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Description: product.Description,
	}
}
