package models

import (
	"testing"
	"time"
)

func TestParseReading(t *testing.T) {
	now := time.Now().UTC()

	t.Run("well-formed line", func(t *testing.T) {
		r := ParseReading("TDS:550,pH:7.1,Turbidity:3.2", now)
		if got := r.Channel(ChannelTDS); got != 550 {
			t.Errorf("tds = %v, want 550", got)
		}
		if got := r.Channel(ChannelPH); got != 7.1 {
			t.Errorf("ph = %v, want 7.1", got)
		}
		if got := r.Channel(ChannelTurbidity); got != 3.2 {
			t.Errorf("turbidity = %v, want 3.2", got)
		}
		if !r.Timestamp.Equal(now) {
			t.Errorf("timestamp = %v, want %v", r.Timestamp, now)
		}
	})

	t.Run("non-numeric value defaults to zero", func(t *testing.T) {
		r := ParseReading("TDS:oops,pH:7.0", now)
		if got := r.Channel(ChannelTDS); got != 0 {
			t.Errorf("tds = %v, want 0", got)
		}
		if got := r.Channel(ChannelPH); got != 7.0 {
			t.Errorf("ph = %v, want 7.0", got)
		}
	})

	t.Run("malformed fields are skipped", func(t *testing.T) {
		r := ParseReading("garbage,TDS:100,:5", now)
		if len(r.Channels) != 1 {
			t.Errorf("channels = %v, want only tds", r.Channels)
		}
		if got := r.Channel(ChannelTDS); got != 100 {
			t.Errorf("tds = %v, want 100", got)
		}
	})

	t.Run("keys normalized to lower case", func(t *testing.T) {
		r := ParseReading(" Turbidity : 6.5 ", now)
		if got := r.Channel(ChannelTurbidity); got != 6.5 {
			t.Errorf("turbidity = %v, want 6.5", got)
		}
	})
}

func TestNewEnrichedRecord(t *testing.T) {
	now := time.Now().UTC()
	reading := ParseReading("TDS:550,pH:7.1,Turbidity:3.2", now)

	rec := NewEnrichedRecord(reading, map[string]Prediction{
		"Cholera":        {Probability: 0.02},
		"System Message": {Probability: 0, RiskLevel: "No Model"},
	})

	if rec.TDS != 550 || rec.PH != 7.1 || rec.Turbidity != 3.2 {
		t.Errorf("channels = %v/%v/%v, want 550/7.1/3.2", rec.TDS, rec.PH, rec.Turbidity)
	}
	if rec.CholeraProb != 0.02 {
		t.Errorf("cholera_prob = %v, want 0.02", rec.CholeraProb)
	}
	// Diseases absent from the prediction map default to zero.
	for disease, p := range rec.Probabilities() {
		if disease == "Cholera" {
			continue
		}
		if p != 0 {
			t.Errorf("%s probability = %v, want 0", disease, p)
		}
	}
}

func TestProbabilitiesCoversAllDiseases(t *testing.T) {
	probs := EnrichedRecord{}.Probabilities()
	for _, disease := range Diseases {
		if _, ok := probs[disease]; !ok {
			t.Errorf("Probabilities() missing disease %q", disease)
		}
	}
	if len(probs) != len(Diseases) {
		t.Errorf("Probabilities() has %d entries, want %d", len(probs), len(Diseases))
	}
}
