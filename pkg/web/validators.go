package web

import (
	"fmt"
	"net/http"
	"strconv"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

func newComparisonValidator(valueInClosure int64, compareFn func(argValue, closedValue int64) bool) ParamValidator {
	return func(argValue int64) bool {
		return compareFn(argValue, valueInClosure)
	}
}

// gte returns a ParamValidator that checks if the argument is greater than or equal to the value captured in the closure.
func gte(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue >= closedValue
	})
}

// ParsePathID reads the "id" path value as a positive integer.
func ParsePathID(r *http.Request) (int64, error) {
	return parsePathValue(r, "id", gte(1))
}

func parsePathValue(r *http.Request, key string, pValidator ParamValidator) (int64, error) {
	value := r.PathValue(key)
	if value == "" {
		return 0, fmt.Errorf("%s path parameter is required", key)
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil || !pValidator(intValue) {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	return intValue, nil
}
