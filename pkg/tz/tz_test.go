package tz

import (
	"testing"
	"time"
)

func TestLoadDefault(t *testing.T) {
	loc, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loc.String() != DefaultZone {
		t.Fatalf("Load(\"\") = %s, want %s", loc, DefaultZone)
	}
	if _, err := Load("Nowhere/Special"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}

func TestSameDay(t *testing.T) {
	jlm, err := Load("Asia/Jerusalem")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// 22:30 UTC is already the next day in Jerusalem.
	late := time.Date(2025, 10, 1, 22, 30, 0, 0, time.UTC)
	nextMorning := time.Date(2025, 10, 2, 6, 0, 0, 0, time.UTC)

	if SameDay(late, nextMorning, time.UTC) {
		t.Fatal("different UTC days reported equal")
	}
	if !SameDay(late, nextMorning, jlm) {
		t.Fatal("same Jerusalem day reported different")
	}
}
