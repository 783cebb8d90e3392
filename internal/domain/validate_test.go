package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		id    string
		valid bool
	}{
		{"101", true},
		{"0", true},
		{"00042", true},
		{"", false},
		{"12a", false},
		{"-1", false},
		{"1.5", false},
		{" 101", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.valid, IsValidID(tc.id), "id %q", tc.id)
	}
}

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]Severity{
		"low":    SeverityLow,
		"LOW":    SeverityLow,
		"Medium": SeverityMedium,
		"hIgH":   SeverityHigh,
		" high ": SeverityHigh,
	} {
		got, ok := ParseSeverity(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, want, got)
	}

	for _, input := range []string{"", "urgent", "critical", "hi"} {
		_, ok := ParseSeverity(input)
		assert.False(t, ok, "input %q", input)
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]Status{
		"open":        StatusOpen,
		"IN PROGRESS": StatusInProgress,
		"in progress": StatusInProgress,
		"Closed":      StatusClosed,
	} {
		got, ok := ParseStatus(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, want, got)
	}

	for _, input := range []string{"", "done", "pending", "inprogress"} {
		_, ok := ParseStatus(input)
		assert.False(t, ok, "input %q", input)
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]Category{
		"hardware": CategoryHardware,
		"SOFTWARE": CategorySoftware,
		"Network":  CategoryNetwork,
		"security": CategorySecurity,
	} {
		got, ok := ParseCategory(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, want, got)
	}

	_, ok := ParseCategory("other")
	assert.False(t, ok)
}

func TestMissingFields(t *testing.T) {
	t.Parallel()

	record := map[string]string{
		FieldTitle:       "Broken printer",
		FieldDescription: "   ",
		FieldAssignee:    "",
	}
	missing := MissingFields(record, []string{FieldTitle, FieldDescription, FieldAssignee})
	assert.Equal(t, []string{FieldDescription, FieldAssignee}, missing)

	record[FieldDescription] = "Paper jam on floor 2"
	record[FieldAssignee] = "Olivia"
	assert.Empty(t, MissingFields(record, []string{FieldTitle, FieldDescription, FieldAssignee}))
}

func TestCanonicalField(t *testing.T) {
	t.Parallel()

	got, ok := CanonicalField("severity")
	require.True(t, ok)
	assert.Equal(t, FieldSeverity, got)

	got, ok = CanonicalField("id")
	require.True(t, ok)
	assert.Equal(t, FieldID, got)

	_, ok = CanonicalField("SubmittedAt")
	assert.False(t, ok)
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	assert.True(t, CanTransition(StatusOpen, StatusInProgress))
	assert.True(t, CanTransition(StatusInProgress, StatusOpen))
	assert.True(t, CanTransition(StatusOpen, StatusClosed))
	assert.True(t, CanTransition(StatusInProgress, StatusClosed))

	assert.False(t, CanTransition(StatusClosed, StatusOpen))
	assert.False(t, CanTransition(StatusClosed, StatusInProgress))
	assert.False(t, CanTransition(StatusClosed, StatusClosed))
}

func TestClone(t *testing.T) {
	t.Parallel()

	original := &Ticket{
		ID:       "101",
		Title:    "VPN down",
		Comments: []Comment{{Author: "Olivia", Content: "checking"}},
	}
	copied := original.Clone()
	copied.Title = "changed"
	copied.Comments[0].Content = "changed"

	assert.Equal(t, "VPN down", original.Title)
	assert.Equal(t, "checking", original.Comments[0].Content)
}

func TestSeverityRank(t *testing.T) {
	t.Parallel()

	assert.Less(t, SeverityRank(SeverityHigh), SeverityRank(SeverityMedium))
	assert.Less(t, SeverityRank(SeverityMedium), SeverityRank(SeverityLow))
}
