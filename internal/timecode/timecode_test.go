package timecode

import "testing"

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.239, 1.24},
		{1.231, 1.23},
		{-1.239, -1.24},
		{2.5, 2.5},
		{10, 10},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatSRT(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "00:00:00,000"},
		{"millis", 1.999, "00:00:01,999"},
		{"minute_boundary", 90.25, "00:01:30,250"},
		{"hours", 3661.5, "01:01:01,500"},
		{"millis_carry", 1.9996, "00:00:02,000"},
		{"carry_into_minute", 59.9996, "00:01:00,000"},
		{"carry_into_hour", 3599.9996, "01:00:00,000"},
		{"negative_uses_magnitude", -1.5, "00:00:01,500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSRT(tt.in); got != tt.want {
				t.Errorf("FormatSRT(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatVTT(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00.000"},
		{1.999, "00:00:01.999"},
		{59.9996, "00:01:00.000"},
		{3661.5, "01:01:01.500"},
	}
	for _, tt := range tests {
		if got := FormatVTT(tt.in); got != tt.want {
			t.Errorf("FormatVTT(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripLinebreaks(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"no breaks", "no breaks"},
		{"a\nb", "a b"},
		{"a\r\nb\rc", "a b c"},
		{"a\nb\r\nc", "a b c"},
	}
	for _, tt := range tests {
		if got := StripLinebreaks(tt.in); got != tt.want {
			t.Errorf("StripLinebreaks(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
