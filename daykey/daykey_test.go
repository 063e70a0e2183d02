package daykey

import (
	"errors"
	"testing"
	"time"
)

func TestLocationKeyer_UTC(t *testing.T) {
	k := UTC()

	tests := []struct {
		name string
		now  time.Time
		want Key
	}{
		{"midnight", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), "2024-03-09"},
		{"last nanosecond", time.Date(2024, 3, 9, 23, 59, 59, 999999999, time.UTC), "2024-03-09"},
		{"next day", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), "2024-03-10"},
		{"leap day", time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := k.Key(tt.now); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocationKeyer_ConvertsToReferenceLocation(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	est := time.FixedZone("EST", -5*60*60)
	now := time.Date(2024, 3, 9, 23, 30, 0, 0, est)

	if got := UTC().Key(now); got != "2024-03-10" {
		t.Errorf("UTC Key() = %q, want %q", got, "2024-03-10")
	}
	if got := New(est).Key(now); got != "2024-03-09" {
		t.Errorf("EST Key() = %q, want %q", got, "2024-03-09")
	}
}

func TestNew_NilLocationIsUTC(t *testing.T) {
	if New(nil).Location() != time.UTC {
		t.Error("New(nil) should use UTC")
	}
}

func TestLoad(t *testing.T) {
	k, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if k.Location() != time.UTC {
		t.Errorf("Load(\"\") location = %v, want UTC", k.Location())
	}

	if _, err := Load("Not/AZone"); err == nil {
		t.Error("Load() should fail for an unknown zone")
	}
}

func TestLocationKeyer_NextRollover(t *testing.T) {
	k := UTC()

	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got := k.NextRollover(tt.now)
		if !got.Equal(tt.want) {
			t.Errorf("NextRollover(%v) = %v, want %v", tt.now, got, tt.want)
		}
		if k.Key(got) == k.Key(tt.now) {
			t.Errorf("key at rollover %v should differ from key at %v", got, tt.now)
		}
		if k.Key(got.Add(-time.Nanosecond)) != k.Key(tt.now) {
			t.Errorf("key just before rollover should equal key of now")
		}
	}
}

func TestLocationKeyer_Start(t *testing.T) {
	k := UTC()
	start, err := k.Start("2024-03-09")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !start.Equal(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Start() = %v", start)
	}

	if _, err := k.Start("yesterday"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Start() error = %v, want ErrInvalidKey", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2024-03-09", false},
		{"2024-02-29", false},
		{"2023-02-29", true},
		{"2024-3-9", true},
		{"", true},
		{"../etc/passwd", true},
		{"2024-03-09T00:00:00Z", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKey) {
					t.Errorf("Parse(%q) error = %v, want ErrInvalidKey", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.in, err)
			}
			if got.String() != tt.in {
				t.Errorf("Parse(%q) = %q", tt.in, got)
			}
		})
	}
}
