// Package validation checks candidate products against the catalog rules before they are persisted.
//
// Validation is pure: it only looks at the candidate and the collection it is given.
package validation

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/abgdnv/catalog/internal/store"
	"github.com/go-playground/validator/v10"
)

// Messages returned to clients.
const (
	MsgNameLettersOnly    = "O nome do produto deve conter apenas letras"
	MsgNameTaken          = "Nome do produto já existe"
	MsgPricePositive      = "O preço deve ser um número positivo"
	MsgDescriptionCharset = "A descrição deve conter apenas letras e números"
)

// Rule names.
const (
	RuleNameCharset        = "name_charset"
	RuleNameUnique         = "name_unique"
	RulePricePositive      = "price_positive"
	RuleDescriptionCharset = "description_charset"
)

const (
	tagProductName        = "product_name"
	tagProductDescription = "product_description"
	tagFinite             = "finite"
)

var (
	nameRe        = regexp.MustCompile(`^[A-Za-záàâãéèêíïóôõöúçñÁÀÂÃÉÈÊÍÏÓÔÕÖÚÇÑ\s]+$`)
	descriptionRe = regexp.MustCompile(`^[A-Za-z0-9áàâãéèêíïóôõöúçñÁÀÂÃÉÈÊÍÏÓÔÕÖÚÇÑ\s.,!?]+$`)
)

// Violation describes a single broken rule.
type Violation struct {
	Rule    string
	Field   string
	Message string
}

// CheckFunc reports whether candidate satisfies a rule given the current collection.
type CheckFunc func(candidate store.Product, existing []store.Product, isUpdate bool) bool

// Rule is a named predicate over a candidate product.
type Rule struct {
	Name    string
	Field   string
	Message string
	Check   CheckFunc
}

// Validator evaluates every rule independently and collects all violations.
type Validator struct {
	fields *validator.Validate
	rules  []Rule
}

// New creates a Validator with the catalog rules in reporting order: name charset, name uniqueness,
// price, description.
func New() *Validator {
	fields := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(fields, tagProductName, matches(nameRe))
	mustRegister(fields, tagProductDescription, matches(descriptionRe))
	mustRegister(fields, tagFinite, finite)

	v := &Validator{fields: fields}
	v.rules = []Rule{
		{
			Name:    RuleNameCharset,
			Field:   "name",
			Message: MsgNameLettersOnly,
			Check: func(c store.Product, _ []store.Product, _ bool) bool {
				return v.fields.Var(c.Name, "required,"+tagProductName) == nil
			},
		},
		{
			Name:    RuleNameUnique,
			Field:   "name",
			Message: MsgNameTaken,
			Check:   uniqueName,
		},
		{
			Name:    RulePricePositive,
			Field:   "price",
			Message: MsgPricePositive,
			Check: func(c store.Product, _ []store.Product, _ bool) bool {
				return v.fields.Var(c.Price, tagFinite+",gt=0") == nil
			},
		},
		{
			Name:    RuleDescriptionCharset,
			Field:   "description",
			Message: MsgDescriptionCharset,
			Check: func(c store.Product, _ []store.Product, _ bool) bool {
				return v.fields.Var(c.Description, "omitempty,"+tagProductDescription) == nil
			},
		},
	}
	return v
}

// Validate runs every rule against candidate. When isUpdate is true the record with the candidate's id
// is left out of the uniqueness check. An empty result means the candidate is valid.
func (v *Validator) Validate(candidate store.Product, existing []store.Product, isUpdate bool) []Violation {
	var violations []Violation
	for _, rule := range v.rules {
		if !rule.Check(candidate, existing, isUpdate) {
			violations = append(violations, Violation{Rule: rule.Name, Field: rule.Field, Message: rule.Message})
		}
	}
	return violations
}

// Rule returns the rule registered under name.
func (v *Validator) Rule(name string) (Rule, bool) {
	for _, rule := range v.rules {
		if rule.Name == name {
			return rule, true
		}
	}
	return Rule{}, false
}

// Messages extracts the client-facing messages, dropping repeats.
func Messages(violations []Violation) []string {
	messages := make([]string, 0, len(violations))
	seen := make(map[string]struct{}, len(violations))
	for _, violation := range violations {
		if _, dup := seen[violation.Message]; dup {
			continue
		}
		seen[violation.Message] = struct{}{}
		messages = append(messages, violation.Message)
	}
	return messages
}

// uniqueName compares names case-insensitively against the collection.
func uniqueName(candidate store.Product, existing []store.Product, isUpdate bool) bool {
	for _, p := range existing {
		if isUpdate && p.ID == candidate.ID {
			continue
		}
		if strings.EqualFold(p.Name, candidate.Name) {
			return false
		}
	}
	return true
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func finite(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}
