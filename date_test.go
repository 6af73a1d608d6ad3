package folio

import "testing"

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"2024-01-02", NewDate(2024, 1, 2)},
		{"2024-1-2", NewDate(2024, 1, 2)},
		{"2023-12-31", NewDate(2023, 12, 31)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if err != nil {
			t.Fatalf("ParseDate(%q): unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseDate("not-a-date"); err == nil {
		t.Errorf("ParseDate(%q): expected error, got nil", "not-a-date")
	}
}

func TestDateAddSub(t *testing.T) {
	d := NewDate(2024, 3, 1)

	if got, want := d.Add(1), NewDate(2024, 3, 2); got != want {
		t.Errorf("Add(1) = %v, want %v", got, want)
	}
	if got, want := d.Add(-1), NewDate(2024, 2, 29); got != want {
		t.Errorf("Add(-1) = %v, want %v", got, want)
	}
	if got, want := NewDate(2024, 3, 10).Sub(d), 9; got != want {
		t.Errorf("Sub = %v, want %v", got, want)
	}
}

func TestRangeDays(t *testing.T) {
	r := NewRange(NewDate(2024, 1, 1), NewDate(2024, 1, 3))

	var got []Date
	for d := range r.Days() {
		got = append(got, d)
	}
	want := []Date{NewDate(2024, 1, 1), NewDate(2024, 1, 2), NewDate(2024, 1, 3)}
	if len(got) != len(want) {
		t.Fatalf("Days: got %d days, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Days[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRangeIndex(t *testing.T) {
	r := NewRange(NewDate(2024, 1, 1), NewDate(2024, 1, 5))

	tests := []struct {
		day  Date
		want int
	}{
		{NewDate(2024, 1, 1), 0},
		{NewDate(2024, 1, 3), 2},
		{NewDate(2024, 1, 5), 4},
		{NewDate(2023, 12, 31), -1},
		{NewDate(2024, 1, 6), -1},
	}
	for _, tt := range tests {
		if got := r.Index(tt.day); got != tt.want {
			t.Errorf("Index(%v) = %d, want %d", tt.day, got, tt.want)
		}
	}
}

func TestNewRangeSwaps(t *testing.T) {
	r := NewRange(NewDate(2024, 2, 1), NewDate(2024, 1, 1))
	if r.From != NewDate(2024, 1, 1) || r.To != NewDate(2024, 2, 1) {
		t.Errorf("NewRange did not normalize bounds: %v", r)
	}
}

func TestRangeContains(t *testing.T) {
	r := NewRange(NewDate(2024, 1, 1), NewDate(2024, 1, 31))
	if !r.Contains(NewDate(2024, 1, 15)) {
		t.Errorf("Contains(mid) = false, want true")
	}
	if r.Contains(NewDate(2024, 2, 1)) {
		t.Errorf("Contains(after) = true, want false")
	}
}
