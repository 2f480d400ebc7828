package pkg

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestDoc_Number(t *testing.T) {
	tests := []struct {
		name string
		doc  Doc
		keys []string
		want float64
	}{
		{"float", Doc{"p": 12.5}, []string{"p"}, 12.5},
		{"int", Doc{"p": 7}, []string{"p"}, 7},
		{"json number", Doc{"p": json.Number("3")}, []string{"p"}, 3},
		{"numeric string", Doc{"p": " 42 "}, []string{"p"}, 42},
		{"garbage string", Doc{"p": "cheap"}, []string{"p"}, 0},
		{"NaN", Doc{"p": math.NaN()}, []string{"p"}, 0},
		{"missing", Doc{}, []string{"p"}, 0},
		{"fallback key", Doc{"durationMinutes": 90.0}, []string{"estimatedDurationMinutes", "durationMinutes"}, 90},
		{"first present wins", Doc{"a": "x", "b": 5.0}, []string{"a", "b"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.Number(tt.keys...); got != tt.want {
				t.Errorf("Number() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDoc_Int(t *testing.T) {
	tests := []struct {
		name string
		doc  Doc
		want int
	}{
		{"truncates", Doc{"n": 42.9}, 42},
		{"negative truncates", Doc{"n": -3.7}, -3},
		{"huge", Doc{"n": 1e300}, math.MaxInt},
		{"huge negative", Doc{"n": -1e300}, math.MinInt},
		{"huge string", Doc{"n": "9e99"}, math.MaxInt},
		{"missing", Doc{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.Int("n"); got != tt.want {
				t.Errorf("Int() = %d, want %d", got, tt.want)
			}
		})
	}

	if got := (Doc{"seats": []any{1e300, 4.0}}).Ints("seats"); got[0] != math.MaxInt || got[1] != 4 {
		t.Errorf("Ints() = %v, want [MaxInt 4]", got)
	}
}

func TestDoc_StringsAndInts(t *testing.T) {
	d := Doc{
		"stops": []any{"Mukono", 3.0, "Lugazi"},
		"seats": []any{1.0, "x", math.Inf(1), 4.0},
		"typed": []string{"a"},
	}
	if got := d.Strings("stops"); len(got) != 2 || got[1] != "Lugazi" {
		t.Errorf("Strings(stops) = %v", got)
	}
	if got := d.Strings("typed"); len(got) != 1 {
		t.Errorf("Strings(typed) = %v", got)
	}
	if got := d.Strings("missing"); got == nil || len(got) != 0 {
		t.Errorf("Strings(missing) = %#v, want empty non-nil", got)
	}
	if got := d.Ints("seats"); len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Errorf("Ints(seats) = %v", got)
	}
}

func TestDoc_Active(t *testing.T) {
	tests := []struct {
		doc  Doc
		want bool
	}{
		{Doc{}, true},
		{Doc{"isActive": true}, true},
		{Doc{"isActive": false}, false},
		{Doc{"isActive": "false"}, true},
		{Doc{"isActive": nil}, true},
	}
	for _, tt := range tests {
		if got := tt.doc.Active(); got != tt.want {
			t.Errorf("Active(%v) = %v, want %v", tt.doc, got, tt.want)
		}
	}
}

func TestDoc_Time(t *testing.T) {
	want := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		v    any
	}{
		{"native", want},
		{"rfc3339", "2024-06-01T08:00:00Z"},
		{"fixed width", "2024-06-01T08:00:00.000000000Z"},
		{"seconds map", map[string]any{"seconds": float64(want.Unix()), "nanos": 0.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Doc{"t": tt.v}.Time("t")
			if got == nil || !got.Equal(want) {
				t.Errorf("Time() = %v, want %v", got, want)
			}
		})
	}
	if (Doc{"t": "yesterday"}).Time("t") != nil {
		t.Error("unparsable time should be nil")
	}
	if got := (Doc{"t": want}).TimeString("t"); got != "2024-06-01T08:00:00Z" {
		t.Errorf("TimeString() = %q", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{"2024-06-01T08:00:00+03:00", "2024-06-01T08:00:00", "2024-06-01T08:00", "2024-06-01"} {
		if _, err := ParseTimestamp(s); err != nil {
			t.Errorf("ParseTimestamp(%q): %v", s, err)
		}
	}
	if _, err := ParseTimestamp("June 1st"); err == nil {
		t.Error("expected error for free text")
	}
}
