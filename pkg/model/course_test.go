package model

import (
	"reflect"
	"testing"
)

func TestCourse_Validate(t *testing.T) {
	tests := []struct {
		name    string
		course  Course
		wantErr bool
	}{
		{"valid", Course{Code: "BMS115", Semester: 1, Credits: 3}, false},
		{"empty code", Course{Code: "  ", Semester: 1, Credits: 3}, true},
		{"zero semester", Course{Code: "X1", Semester: 0, Credits: 3}, true},
		{"negative credits", Course{Code: "X1", Semester: 1, Credits: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.course.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCourse_Normalize(t *testing.T) {
	c := Course{Code: " BPT216 ", Prerequisites: []string{"BMS115", " ", "BMS116", "BMS115 "}}
	got := c.Normalize()
	if got.Code != "BPT216" {
		t.Errorf("expected trimmed code, got %q", got.Code)
	}
	want := []string{"BMS115", "BMS116"}
	if !reflect.DeepEqual(got.Prerequisites, want) {
		t.Errorf("expected %v, got %v", want, got.Prerequisites)
	}
	if len(c.Prerequisites) != 4 {
		t.Errorf("Normalize must not modify the receiver")
	}

	empty := Course{Code: "A"}.Normalize()
	if empty.Prerequisites == nil {
		t.Errorf("expected non-nil empty prerequisites")
	}
}

func TestCodePrefix(t *testing.T) {
	tests := map[string]string{
		"BPT216": "BPT",
		"UC1":    "UC",
		"E5":     "E",
		"123":    "",
		"":       "",
		"abc9":   "abc",
	}
	for code, want := range tests {
		if got := CodePrefix(code); got != want {
			t.Errorf("CodePrefix(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestCreditBand(t *testing.T) {
	tests := map[int]string{1: "low", 2: "low", 3: "medium", 4: "medium", 5: "high", 8: "high"}
	for credits, want := range tests {
		if got := CreditBand(credits); got != want {
			t.Errorf("CreditBand(%d) = %q, want %q", credits, got, want)
		}
	}
}

func TestStatus_NextCycles(t *testing.T) {
	s := StatusNone
	seen := []Status{}
	for i := 0; i < 4; i++ {
		s = s.Next()
		seen = append(seen, s)
	}
	want := []Status{StatusPlanned, StatusInProgress, StatusCompleted, StatusNone}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("expected %v, got %v", want, seen)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"completed", StatusCompleted, true},
		{"DONE", StatusCompleted, true},
		{"in_progress", StatusInProgress, true},
		{"", StatusNone, true},
		{"failed", Status("failed"), false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
		if ok && !got.IsValid() {
			t.Errorf("ParseStatus(%q) returned invalid status %q", tt.in, got)
		}
	}
}
