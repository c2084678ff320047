package models

// Severity classifies how far a channel value is outside its safe range.
type Severity string

const (
	SeveritySafe    Severity = "safe"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Potability thresholds for the tracked channels.
const (
	TDSSafeMax       = 500.0
	TDSWarnMax       = 1000.0
	PHSafeMin        = 6.5
	PHSafeMax        = 8.5
	PHDangerMin      = 5.5
	PHDangerMax      = 9.5
	TurbiditySafeMax = 4.0
	TurbidityWarnMax = 8.0
)

// ClassifyChannel maps a channel value to its severity. Unknown channels are
// always safe.
func ClassifyChannel(name string, value float64) Severity {
	switch name {
	case ChannelTDS:
		return classifyUpperBound(value, TDSSafeMax, TDSWarnMax)
	case ChannelPH:
		if value >= PHSafeMin && value <= PHSafeMax {
			return SeveritySafe
		}
		if value < PHDangerMin || value > PHDangerMax {
			return SeverityDanger
		}
		return SeverityWarning
	case ChannelTurbidity:
		return classifyUpperBound(value, TurbiditySafeMax, TurbidityWarnMax)
	}
	return SeveritySafe
}

func classifyUpperBound(value, safeMax, warnMax float64) Severity {
	switch {
	case value <= safeMax:
		return SeveritySafe
	case value <= warnMax:
		return SeverityWarning
	default:
		return SeverityDanger
	}
}

// Actionable reports whether a severity warrants maintenance attention.
func (s Severity) Actionable() bool {
	return s == SeverityWarning || s == SeverityDanger
}
