package models

import (
	"fmt"
	"strings"
)

// Shift identifies the half-day a lesson occupies.
type Shift string

const (
	ShiftMorning   Shift = "MORNING"
	ShiftAfternoon Shift = "AFTERNOON"
)

// Opposite returns the other shift.
func (s Shift) Opposite() Shift {
	if s == ShiftMorning {
		return ShiftAfternoon
	}
	return ShiftMorning
}

// Index maps the shift onto the second axis of an availability matrix.
func (s Shift) Index() int {
	if s == ShiftAfternoon {
		return 1
	}
	return 0
}

// ParseShift normalises user input into a Shift.
func ParseShift(raw string) (Shift, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "MORNING", "MATUTINO", "M":
		return ShiftMorning, nil
	case "AFTERNOON", "VESPERTINO", "A":
		return ShiftAfternoon, nil
	}
	return "", fmt.Errorf("unknown shift %q", raw)
}

// Weekday labels for display ordering, indexed by day 1..5.
var DayLabels = map[int]string{
	1: "Monday",
	2: "Tuesday",
	3: "Wednesday",
	4: "Thursday",
	5: "Friday",
}
