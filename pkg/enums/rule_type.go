package enums

import (
	"fmt"
	"strings"
)

// RuleType selects how a shipping method is restricted and dated.
type RuleType string

const (
	RuleTypeASAP   RuleType = "asap"
	RuleTypeByDate RuleType = "by_date"
)

var validRuleTypes = []RuleType{
	RuleTypeASAP,
	RuleTypeByDate,
}

// String implements fmt.Stringer.
func (r RuleType) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RuleType.
func (r RuleType) IsValid() bool {
	for _, candidate := range validRuleTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRuleType converts raw input into a RuleType. Matching is case-insensitive.
func ParseRuleType(value string) (RuleType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validRuleTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule type %q", value)
}
