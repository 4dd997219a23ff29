package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A fixed Wednesday morning used as the reference instant in all tests.
var wednesday = time.Date(2025, 3, 12, 10, 30, 0, 0, time.UTC)

func TestReferenceInstantIsWednesday(t *testing.T) {
	require.Equal(t, time.Wednesday, wednesday.Weekday())
}

func TestResolveTomorrowWithClockTime(t *testing.T) {
	got, ok := Resolve("Tomorrow at 2pm", wednesday)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 13, 14, 0, 0, 0, time.UTC), got)
}

func TestResolveTomorrowKeepsDefaultTime(t *testing.T) {
	got, ok := Resolve("tomorrow", wednesday)
	require.True(t, ok)
	assert.Equal(t, wednesday.AddDate(0, 0, 1), got)
}

func TestResolveTodayWithMinutes(t *testing.T) {
	got, ok := Resolve("today at 3:30 pm", wednesday)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC), got)
}

func TestResolveBareHourIsTwentyFourHour(t *testing.T) {
	// No meridiem means the hour is taken as-is.
	got, ok := Resolve("today at 14", wednesday)
	require.True(t, ok)
	assert.Equal(t, 14, got.Hour())
	assert.Equal(t, 0, got.Minute())
}

func TestResolveTwelveAMMapsToMidnight(t *testing.T) {
	got, ok := Resolve("tomorrow at 12am", wednesday)
	require.True(t, ok)
	assert.Equal(t, 0, got.Hour())
}

func TestResolveTwelvePMStaysNoon(t *testing.T) {
	got, ok := Resolve("tomorrow at 12pm", wednesday)
	require.True(t, ok)
	assert.Equal(t, 12, got.Hour())
}

func TestResolveEndOfWeek(t *testing.T) {
	got, ok := Resolve("by end of week", wednesday)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC), got)
}

func TestResolveEndOfDay(t *testing.T) {
	got, ok := Resolve("end of day", wednesday)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 12, 17, 0, 0, 0, time.UTC), got)
}

func TestResolveNextWeekAndMonth(t *testing.T) {
	got, ok := Resolve("next week", wednesday)
	require.True(t, ok)
	assert.Equal(t, wednesday.AddDate(0, 0, 7), got)

	got, ok = Resolve("next month", wednesday)
	require.True(t, ok)
	assert.Equal(t, wednesday.AddDate(0, 0, 30), got)
}

func TestResolveNextFriday(t *testing.T) {
	// Wednesday reference: Friday is two days out, time of day unchanged.
	got, ok := Resolve("next Friday", wednesday)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC), got)
}

func TestResolveWeekdayWithClockTime(t *testing.T) {
	got, ok := Resolve("Friday at 3:30", wednesday)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 14, 3, 30, 0, 0, time.UTC), got)
}

func TestResolveSameWeekdayJumpsFullWeek(t *testing.T) {
	got, ok := Resolve("wednesday", wednesday)
	require.True(t, ok)
	assert.Equal(t, wednesday.AddDate(0, 0, 7), got)
}

func TestWeekdayNeverResolvesToThePast(t *testing.T) {
	for _, name := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		got, ok := Resolve(name, wednesday)
		require.True(t, ok, name)
		assert.True(t, got.After(wednesday), "%s resolved to %s, not in the future", name, got)
	}
}

func TestPhraseNamingTwoWeekdaysIsDeterministic(t *testing.T) {
	// The earlier weekday in the week order wins, every time.
	want := time.Date(2025, 3, 17, 10, 30, 0, 0, time.UTC) // next Monday
	for i := 0; i < 20; i++ {
		got, ok := Resolve("monday or tuesday", wednesday)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestResolveRelativeDurations(t *testing.T) {
	got, ok := Resolve("in 3 hours", wednesday)
	require.True(t, ok)
	assert.Equal(t, wednesday.Add(3*time.Hour), got)

	got, ok = Resolve("in two hours", wednesday)
	require.True(t, ok)
	assert.Equal(t, wednesday.Add(2*time.Hour), got)

	got, ok = Resolve("in 5 days", wednesday)
	require.True(t, ok)
	assert.Equal(t, wednesday.AddDate(0, 0, 5), got)

	got, ok = Resolve("in 2 weeks", wednesday)
	require.True(t, ok)
	assert.Equal(t, wednesday.AddDate(0, 0, 14), got)
}

func TestResolveUnparseablePhrases(t *testing.T) {
	for _, phrase := range []string{"sometime maybe", "", "whenever you can", "soonish"} {
		_, ok := Resolve(phrase, wednesday)
		assert.False(t, ok, "expected %q to be unparseable", phrase)
	}
}

func TestMalformedClockFragmentKeepsAnchorDefault(t *testing.T) {
	// 99 is not a valid hour; the anchor's own time of day survives.
	got, ok := Resolve("tomorrow at 99", wednesday)
	require.True(t, ok)
	assert.Equal(t, wednesday.AddDate(0, 0, 1), got)
}
