package models

import "testing"

func TestClassifyChannel(t *testing.T) {
	tests := []struct {
		channel string
		value   float64
		want    Severity
	}{
		{ChannelTDS, 120, SeveritySafe},
		{ChannelTDS, 500, SeveritySafe},
		{ChannelTDS, 550, SeverityWarning},
		{ChannelTDS, 1000, SeverityWarning},
		{ChannelTDS, 1350, SeverityDanger},
		{ChannelPH, 7.0, SeveritySafe},
		{ChannelPH, 6.5, SeveritySafe},
		{ChannelPH, 8.5, SeveritySafe},
		{ChannelPH, 6.0, SeverityWarning},
		{ChannelPH, 9.0, SeverityWarning},
		{ChannelPH, 5.0, SeverityDanger},
		{ChannelPH, 9.8, SeverityDanger},
		{ChannelTurbidity, 2.5, SeveritySafe},
		{ChannelTurbidity, 6.0, SeverityWarning},
		{ChannelTurbidity, 9.1, SeverityDanger},
		{"unknown", 9999, SeveritySafe},
	}

	for _, tt := range tests {
		if got := ClassifyChannel(tt.channel, tt.value); got != tt.want {
			t.Errorf("ClassifyChannel(%q, %v) = %v, want %v", tt.channel, tt.value, got, tt.want)
		}
	}
}

func TestSeverityActionable(t *testing.T) {
	if SeveritySafe.Actionable() {
		t.Error("safe should not be actionable")
	}
	if !SeverityWarning.Actionable() || !SeverityDanger.Actionable() {
		t.Error("warning and danger should be actionable")
	}
}
