package domain

import "strings"

// Validation predicates shared by the load path and every mutation path, so
// the two can never diverge. Pure functions; no I/O.

// IsValidID reports whether s is a well-formed ticket identifier:
// non-empty and composed solely of decimal digits.
func IsValidID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseSeverity matches s against the severity enum, case-insensitively,
// returning the normalized value.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SeverityLow, true
	case "medium":
		return SeverityMedium, true
	case "high":
		return SeverityHigh, true
	}
	return "", false
}

// ParseStatus matches s against the status enum, case-insensitively,
// returning the normalized value.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return StatusOpen, true
	case "in progress":
		return StatusInProgress, true
	case "closed":
		return StatusClosed, true
	}
	return "", false
}

// ParseCategory matches s against the category enum, case-insensitively,
// returning the normalized value.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hardware":
		return CategoryHardware, true
	case "software":
		return CategorySoftware, true
	case "network":
		return CategoryNetwork, true
	case "security":
		return CategorySecurity, true
	}
	return "", false
}

// MissingFields returns the names from fields whose value in record is
// absent or blank, in the order given. Empty result means all present.
func MissingFields(record map[string]string, fields []string) []string {
	var missing []string
	for _, name := range fields {
		if strings.TrimSpace(record[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// MutableFields lists the fields the update operation may change. ID is
// immutable; SubmittedAt and Comments have dedicated paths.
var MutableFields = []string{
	FieldTitle,
	FieldDescription,
	FieldAssignee,
	FieldSeverity,
	FieldStatus,
	FieldCategory,
}

// IsMutableField reports whether name is in the mutable set.
// Matching is case-insensitive to mirror enum handling.
func IsMutableField(name string) bool {
	for _, f := range MutableFields {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

// CanonicalField maps a case-insensitive field name to its canonical
// spelling, for both mutable fields and ID.
func CanonicalField(name string) (string, bool) {
	if strings.EqualFold(name, FieldID) {
		return FieldID, true
	}
	for _, f := range MutableFields {
		if strings.EqualFold(f, name) {
			return f, true
		}
	}
	return "", false
}
