package datetime

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  string
		wantError bool
	}{
		{name: "Date only", input: "2024-06-01", expected: "2024-06-01"},
		{name: "Surrounding space", input: " 2024-06-01 ", expected: "2024-06-01"},
		{name: "Timestamp drops time", input: "2024-06-01T18:30:00Z", expected: "2024-06-01"},
		{name: "Month only", input: "2024-06", wantError: true},
		{name: "Garbage", input: "next tuesday", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("ParseDate(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.input, err)
			}
			if d.String() != tt.expected {
				t.Errorf("ParseDate(%q) = %s, expected %s", tt.input, d, tt.expected)
			}
		})
	}
}

func TestMustParseDatePanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected MustParseDate to panic with invalid date")
		}
	}()

	MustParseDate("invalid-date")
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		When *Date `json:"when,omitempty"`
	}

	d := MustParseDate("2024-06-01")
	data, err := json.Marshal(wrapper{When: &d})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"when":"2024-06-01"}` {
		t.Errorf("unexpected encoding %s", data)
	}

	var decoded wrapper
	if err := json.Unmarshal([]byte(`{"when":"2024-07-15"}`), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.When == nil || decoded.When.String() != "2024-07-15" {
		t.Errorf("unexpected decoded date %v", decoded.When)
	}

	var empty wrapper
	if err := json.Unmarshal([]byte(`{"when":null}`), &empty); err != nil {
		t.Fatalf("Unmarshal(null) error = %v", err)
	}
	if empty.When != nil {
		t.Errorf("expected null to leave the pointer nil, got %v", empty.When)
	}

	if err := json.Unmarshal([]byte(`{"when":"soon"}`), &decoded); err == nil {
		t.Error("expected error for an invalid date")
	}
}
