package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = NewDate(2026, time.March, 10)

func withDue(d Date, completed bool) Task {
	return Task{Title: "t", Description: "d", DueDate: &d, Completed: completed}
}

func TestOverdue(t *testing.T) {
	yesterday := NewDate(2026, time.March, 9)
	assert.True(t, withDue(yesterday, false).Overdue(day))
	assert.False(t, withDue(yesterday, true).Overdue(day), "a completed task is never overdue")
	assert.False(t, withDue(day, false).Overdue(day), "due today is not overdue")
	assert.False(t, Task{Title: "t"}.Overdue(day), "no due date, never overdue")
}

func TestDueStatusAt(t *testing.T) {
	tests := []struct {
		due  Date
		want DueStatus
	}{
		{NewDate(2026, time.March, 9), DueOverdue},
		{NewDate(2026, time.March, 10), DueToday},
		{NewDate(2026, time.March, 11), DueTomorrow},
		{NewDate(2026, time.March, 13), DueSoon},
		{NewDate(2026, time.March, 14), DueUpcoming},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, withDue(tc.due, false).DueStatusAt(day), "due %s", tc.due)
	}
	assert.Equal(t, DueNone, withDue(NewDate(2026, time.March, 9), true).DueStatusAt(day))
	assert.Equal(t, DueNone, Task{Title: "t"}.DueStatusAt(day))
}

func TestPriorityValid(t *testing.T) {
	assert.True(t, PriorityLow.Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("").Valid())
	assert.False(t, Priority("urgent").Valid())
}

func TestFilterMatches(t *testing.T) {
	overdue := withDue(NewDate(2026, time.March, 1), false)
	done := Task{Title: "t", Completed: true}
	open := Task{Title: "t"}

	assert.True(t, FilterAll.Matches(done, day))
	assert.True(t, FilterAll.Matches(open, day))
	assert.True(t, FilterPending.Matches(open, day))
	assert.False(t, FilterPending.Matches(done, day))
	assert.True(t, FilterCompleted.Matches(done, day))
	assert.False(t, FilterCompleted.Matches(open, day))
	assert.True(t, FilterOverdue.Matches(overdue, day))
	assert.False(t, FilterOverdue.Matches(open, day))
}

func TestParseFilter(t *testing.T) {
	for _, s := range []string{"all", "pending", "completed", "overdue"} {
		f, err := ParseFilter(s)
		require.NoError(t, err)
		assert.Equal(t, Filter(s), f)
	}
	_, err := ParseFilter("done")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2026, time.February, 19)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-02-19"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-02-19"`), &back))
	assert.True(t, d.Equal(back))

	// Older backends send a full timestamp; the time part is dropped.
	require.NoError(t, json.Unmarshal([]byte(`"2026-02-19T15:04:05Z"`), &back))
	assert.True(t, d.Equal(back))

	assert.Error(t, json.Unmarshal([]byte(`"19.02.2026"`), &back))
}

func TestDateArithmetic(t *testing.T) {
	a := NewDate(2026, time.March, 10)
	b := NewDate(2026, time.March, 13)
	assert.Equal(t, 3, a.DaysUntil(b))
	assert.Equal(t, -3, b.DaysUntil(a))
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
	assert.True(t, a.Equal(NewDate(2026, time.March, 10)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-03-10 ")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", d.String())

	_, err = ParseDate("2026-13-40")
	assert.Error(t, err)
}
