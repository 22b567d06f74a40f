package models

import (
	"testing"
	"time"

	"github.com/julianstephens/streakfit/internal/constants"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{input: "sunday", want: time.Sunday},
		{input: "Mon", want: time.Monday},
		{input: " SATURDAY ", want: time.Saturday},
		{input: "0", want: time.Sunday},
		{input: "6", want: time.Saturday},
		{input: "7", wantErr: true},
		{input: "funday", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekday(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseWeekday(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSettingsMapRoundTrip(t *testing.T) {
	in := Settings{WeekStart: time.Monday, Timezone: "Europe/London"}
	out, err := MapToSettings(SettingsToMap(in))
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}

	defaults, err := MapToSettings(map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	if defaults.WeekStart != constants.DefaultWeekStart || defaults.Timezone != constants.DefaultTimezone {
		t.Errorf("empty map did not yield defaults: %+v", defaults)
	}

	if _, err := MapToSettings(map[string]string{constants.SettingWeekStart: "someday"}); err == nil {
		t.Error("MapToSettings() accepted an invalid week start")
	}
}

func TestInArea(t *testing.T) {
	if !InArea([]string{"legs", "chest"}, AreaUpper) {
		t.Error("chest should count as upper body")
	}
	if InArea([]string{"legs", "calves"}, AreaUpper) {
		t.Error("legs and calves are not upper body")
	}
	if InArea([]string{"unknown"}, AreaCore) {
		t.Error("unknown group matched an area")
	}
	if !ValidArea("core") || ValidArea("head") {
		t.Error("ValidArea() mismatch")
	}
}
