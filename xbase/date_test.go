package xbase

import "testing"

func TestDateJulianRoundTrip(t *testing.T) {
	dates := []Date{
		NewDate(5, 18, 2012),
		NewDate(1, 1, 2000),
		NewDate(12, 31, 1999),
		NewDate(2, 29, 2024),
		NewDate(3, 1, 1900),
		NewDate(7, 4, 1776),
	}
	for _, date := range dates {
		julian := date.JulianDay()
		back := FromJulianDay(julian)
		if !back.Equal(date) {
			t.Errorf("Expected %v after round trip, got %v", date, back)
		}
		if back.Year() != date.Year() || back.Month() != date.Month() || back.Day() != date.Day() {
			t.Errorf("Expected fields of %v, got %v", date, back)
		}
	}
}

func TestDateBlank(t *testing.T) {
	blank := NewBlankDate()
	if !blank.IsBlank() {
		t.Error("Expected zero value date to be blank")
	}
	if blank.JulianDay() != -1 {
		t.Errorf("Expected julian day -1 for blank date, got %d", blank.JulianDay())
	}
	if blank.DayOfWeek() != -1 {
		t.Errorf("Expected day of week -1 for blank date, got %d", blank.DayOfWeek())
	}
	if blank.DTOS() != "        " {
		t.Errorf("Expected 8 spaces, got %q", blank.DTOS())
	}
	if blank.String() != "{  /  /    }" {
		t.Errorf("Unexpected blank rendering %q", blank.String())
	}
	other := FromJulianDay(-1)
	if !blank.Equal(other) {
		t.Error("Expected blank dates to compare equal")
	}
}

func TestDateDayOfWeek(t *testing.T) {
	date := NewDate(5, 18, 2012)
	if dow := date.DayOfWeek(); dow != 5 {
		t.Errorf("Expected day of week 5, got %d", dow)
	}
	if name := date.DayOfWeekName(); name != "Friday" {
		t.Errorf("Expected Friday, got %s", name)
	}
	sunday := NewDate(8, 2, 2026)
	if dow := sunday.DayOfWeek(); dow != 0 {
		t.Errorf("Expected day of week 0, got %d", dow)
	}
	monday := NewDate(8, 3, 2026)
	if name := monday.DayOfWeekName(); name != "Monday" {
		t.Errorf("Expected Monday, got %s", name)
	}
}

func TestDateCompare(t *testing.T) {
	newer := NewDate(5, 18, 2012)
	older := NewDate(5, 18, 2011)
	if newer.Compare(older) <= 0 {
		t.Error("Expected the newer date to order after the older one")
	}
	if newer.Compare(NewDate(5, 18, 2012)) != 0 {
		t.Error("Expected equal dates to compare as 0")
	}
	if NewBlankDate().Compare(older) >= 0 {
		t.Error("Expected the blank date to order before any real date")
	}
}

func TestDateDTOS(t *testing.T) {
	if got := NewDate(5, 18, 2012).DTOS(); got != "20120518" {
		t.Errorf("Expected 20120518, got %q", got)
	}
	if got := NewDate(1, 2, 305).DTOS(); got != "03050102" {
		t.Errorf("Expected 03050102, got %q", got)
	}
}

func TestDateString(t *testing.T) {
	if got := NewDate(5, 18, 2012).String(); got != "{5/18/2012}" {
		t.Errorf("Unexpected rendering %q", got)
	}
}

func TestToday(t *testing.T) {
	today := Today()
	if today.IsBlank() {
		t.Error("Expected today to be a real date")
	}
	if !FromJulianDay(today.JulianDay()).Equal(today) {
		t.Error("Expected today to round trip through its julian day")
	}
}
