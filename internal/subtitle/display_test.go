package subtitle

import "testing"

func TestFormatDisplayTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00.000"},
		{1.5, "00:01.500"},
		{75.25, "01:15.250"},
		{3661.007, "01:01.007"},
		{-1, "00:00.000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDisplayTime(tt.seconds); got != tt.want {
				t.Errorf("FormatDisplayTime(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatTimerAndLabel(t *testing.T) {
	if got := FormatTimer(12.5, 90); got != "00:12.500 / 01:30.000" {
		t.Errorf("FormatTimer() = %q", got)
	}
	if got := FormatLabel(3, "Hi"); got != "00:03.000 - Hi" {
		t.Errorf("FormatLabel() = %q", got)
	}
}
