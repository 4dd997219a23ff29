// Package timeparse resolves free-form reminder phrases like "tomorrow at
// 2pm" or "next Friday" into absolute timestamps anchored to a reference
// instant. Parsing is best-effort: phrases that carry no inferable date
// resolve to nothing rather than an error.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// rule pairs a matcher/resolver with a name for logging and tests.
// Rules are tried in order; the first one that matches wins.
type rule struct {
	name    string
	resolve func(phrase string, now time.Time) (time.Time, bool)
}

var rules = []rule{
	{name: "named-anchor", resolve: resolveNamedAnchor},
	{name: "weekday", resolve: resolveWeekday},
	{name: "relative-duration", resolve: resolveRelativeDuration},
}

// Resolve converts a free-form time phrase into an absolute timestamp
// relative to now. The second return value is false when the phrase
// cannot be parsed; callers should persist the absence rather than guess.
func Resolve(phrase string, now time.Time) (time.Time, bool) {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if p == "" {
		return time.Time{}, false
	}
	for _, r := range rules {
		if t, ok := r.resolve(p, now); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// --- Rule 1: named anchors ---

type anchor struct {
	keyword string
	shift   func(now time.Time) time.Time
}

// anchors are checked by substring match in this order.
var anchors = []anchor{
	{"tomorrow", func(now time.Time) time.Time { return now.AddDate(0, 0, 1) }},
	{"today", func(now time.Time) time.Time { return now }},
	{"end of week", comingFriday},
	{"end of day", func(now time.Time) time.Time { return setClock(now, 17, 0) }},
	{"next week", func(now time.Time) time.Time { return now.AddDate(0, 0, 7) }},
	{"next month", func(now time.Time) time.Time { return now.AddDate(0, 0, 30) }},
}

func resolveNamedAnchor(phrase string, now time.Time) (time.Time, bool) {
	for _, a := range anchors {
		if strings.Contains(phrase, a.keyword) {
			return applyClockOverride(a.shift(now), phrase), true
		}
	}
	return time.Time{}, false
}

// comingFriday shifts now forward to the next Friday, keeping the
// time of day. A Friday "now" stays on the same date.
func comingFriday(now time.Time) time.Time {
	ahead := (int(time.Friday) - int(now.Weekday()) + 7) % 7
	return now.AddDate(0, 0, ahead)
}

// --- Rule 2: weekday references ---

// weekdayNames is ordered so a phrase naming several weekdays always
// resolves against the same one.
var weekdayNames = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

func resolveWeekday(phrase string, now time.Time) (time.Time, bool) {
	for _, w := range weekdayNames {
		name, wd := w.name, w.day
		if !strings.Contains(phrase, name) {
			continue
		}
		ahead := (int(wd) - int(now.Weekday()) + 7) % 7
		if ahead == 0 {
			// Naming today's weekday means the next occurrence,
			// never today itself.
			ahead = 7
		}
		return applyClockOverride(now.AddDate(0, 0, ahead), phrase), true
	}
	return time.Time{}, false
}

// --- Rule 3: relative durations ---

var durationRe = regexp.MustCompile(`in\s+(\d+|an?|one|two|three|four|five|six|seven|eight|nine|ten)\s+(hour|day|week)s?`)

var wordNumbers = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

func resolveRelativeDuration(phrase string, now time.Time) (time.Time, bool) {
	m := durationRe.FindStringSubmatch(phrase)
	if m == nil {
		return time.Time{}, false
	}
	n, ok := wordNumbers[m[1]]
	if !ok {
		var err error
		n, err = strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
	}
	switch m[2] {
	case "hour":
		return now.Add(time.Duration(n) * time.Hour), true
	case "day":
		return now.AddDate(0, 0, n), true
	case "week":
		return now.AddDate(0, 0, 7*n), true
	}
	return time.Time{}, false
}

// --- Clock-time override ---

var clockRe = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)?`)

// applyClockOverride replaces the time of day of base with a clock time
// found in the phrase ("2pm", "3:30", "14"). A regex miss keeps base
// unchanged; malformed fragments never error.
func applyClockOverride(base time.Time, phrase string) time.Time {
	m := clockRe.FindStringSubmatch(phrase)
	if m == nil {
		return base
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return base
	}
	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return base
		}
	}
	switch {
	case strings.HasPrefix(m[3], "p") && hour < 12:
		hour += 12
	case strings.HasPrefix(m[3], "a") && hour == 12:
		hour = 0
	}
	return setClock(base, hour, minute)
}

func setClock(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}
