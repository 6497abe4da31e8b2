package customers

import (
	"testing"
	"time"
)

func TestInvalidSex(t *testing.T) {
	cases := map[string]bool{
		"M":    false,
		"F":    false,
		"m":    true,
		"f":    true,
		"T":    true,
		"":     true,
		"MALE": true,
		" M":   true,
	}
	for input, want := range cases {
		if got := InvalidSex(input); got != want {
			t.Fatalf("InvalidSex(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestInvalidContractType(t *testing.T) {
	cases := map[string]bool{
		"fulltime":  false,
		"parttime":  false,
		"Fulltime":  true,
		"Part-Time": true,
		"contract":  true,
		"":          true,
	}
	for input, want := range cases {
		if got := InvalidContractType(input); got != want {
			t.Fatalf("InvalidContractType(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestInvalidDOB(t *testing.T) {
	now := time.Date(2025, time.June, 17, 15, 30, 0, 0, time.UTC)
	cases := []struct {
		dob  string
		want bool
	}{
		{"17-06-2005", false},
		{"01-01-1990", false},
		{"17-06-2025", false},
		{"18-06-2025", true},
		{"01-01-2030", true},
		{"2005-06-17", true},
		{"1-1-1990", true},
		{"31-02-2000", true},
		{"", true},
	}
	for _, tc := range cases {
		if got := InvalidDOB(tc.dob, now); got != tc.want {
			t.Fatalf("InvalidDOB(%q) = %v, want %v", tc.dob, got, tc.want)
		}
	}
}

func TestInvalidDOBUsesCalendarDateOfClock(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2025-06-18 08:00 in UTC+10 is still 2025-06-17 in UTC.
	now := time.Date(2025, time.June, 18, 8, 0, 0, 0, loc)
	if InvalidDOB("18-06-2025", now) {
		t.Fatalf("today in the clock's zone must be accepted")
	}
	if !InvalidDOB("19-06-2025", now) {
		t.Fatalf("tomorrow in the clock's zone must be rejected")
	}
}

func TestFormatDOBRoundTrip(t *testing.T) {
	parsed, err := ParseDOB("01-01-1990")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := FormatDOB(parsed); got != "01-01-1990" {
		t.Fatalf("expected 01-01-1990, got %s", got)
	}
	if got := FormatDOB(time.Time{}); got != "" {
		t.Fatalf("zero date should format empty, got %q", got)
	}
}

func TestValidateStructSaveRequest(t *testing.T) {
	violations := ValidateStruct(SaveCustomerRequest{})
	fields := map[string]string{}
	for _, v := range violations {
		fields[v.Field] = v.Rule
	}
	for _, field := range []string{"name", "account_type", "details"} {
		if fields[field] != "required" {
			t.Fatalf("expected required violation for %s, got %+v", field, violations)
		}
	}
	if _, ok := fields["contract_type"]; ok {
		t.Fatalf("contract_type is left to the business validator")
	}
}

func TestValidateStructNestedDetails(t *testing.T) {
	violations := ValidateStruct(SaveCustomerRequest{
		Name:        "Dhruv Vyas",
		AccountType: "Savings",
		Details:     &DetailsRequest{Sex: "M", DOB: "17-06-2005"},
	})
	if len(violations) != 1 {
		t.Fatalf("expected one violation, got %+v", violations)
	}
	if violations[0].Field != "details.native_place" {
		t.Fatalf("unexpected field %q", violations[0].Field)
	}
	if violations[0].Message != "details.native_place is required" {
		t.Fatalf("unexpected message %q", violations[0].Message)
	}
}

func TestValidateStructID(t *testing.T) {
	if v := ValidateStruct(GetCustomerRequest{ID: 3}); v != nil {
		t.Fatalf("expected no violations, got %+v", v)
	}
	v := ValidateStruct(DeleteCustomerRequest{ID: -1})
	if len(v) != 1 || v[0].Field != "id" || v[0].Rule != "gt" {
		t.Fatalf("unexpected violations %+v", v)
	}
}
