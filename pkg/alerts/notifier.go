package alerts

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/alex22022005/AquaSentry/pkg/models"
)

const defaultHighRiskThreshold = 0.70

// Mailer delivers one message to a recipient list.
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

// Outcome summarizes a notification batch for API callers. Subjects are
// processed independently, so one failed or cooled-down subject never blocks
// the rest of the batch.
type Outcome struct {
	Disabled bool     `json:"disabled,omitempty"`
	Sent     []string `json:"sent"`
	Skipped  []string `json:"skipped"`
	Failed   []string `json:"failed"`
}

// OK reports whether every eligible subject was delivered.
func (o Outcome) OK() bool {
	return !o.Disabled && len(o.Failed) == 0
}

// Notifier sends maintenance and health emails, one per subject, gated by the
// cooldown tracker. A nil mailer disables delivery without failing callers.
type Notifier struct {
	mailer    Mailer
	cooldowns *CooldownTracker

	maintenanceTo []string
	healthTo      []string
	highRisk      float64
}

// NewNotifier wires a notifier. Pass a nil mailer to run with notifications
// disabled. A zero highRisk selects the default threshold.
func NewNotifier(mailer Mailer, cooldowns *CooldownTracker, maintenanceTo, healthTo []string, highRisk float64) *Notifier {
	if highRisk <= 0 {
		highRisk = defaultHighRiskThreshold
	}
	return &Notifier{
		mailer:        mailer,
		cooldowns:     cooldowns,
		maintenanceTo: maintenanceTo,
		healthTo:      healthTo,
		highRisk:      highRisk,
	}
}

// Cooldowns exposes the tracker for status reporting.
func (n *Notifier) Cooldowns() *CooldownTracker {
	return n.cooldowns
}

// SendMaintenanceAlert emails one message per actionable suggestion. Safe
// suggestions are ignored; subjects inside their cooldown window are skipped.
func (n *Notifier) SendMaintenanceAlert(suggestions []models.MaintenanceSuggestion) Outcome {
	if n.mailer == nil {
		log.Println("Email notifications disabled, dropping maintenance alert")
		return Outcome{Disabled: true}
	}

	outcome := Outcome{}
	for _, s := range suggestions {
		if !s.Severity.Actionable() {
			continue
		}
		subject := "maintenance:" + s.Parameter
		if !n.cooldowns.Allow(subject) {
			outcome.Skipped = append(outcome.Skipped, s.Parameter)
			continue
		}

		title := fmt.Sprintf("Water Quality Maintenance Alert: %s (%s)", s.Parameter, s.Severity)
		if err := n.mailer.Send(n.maintenanceTo, title, maintenanceBody(s)); err != nil {
			log.Printf("❌ Failed to send maintenance alert for %s: %v", s.Parameter, err)
			outcome.Failed = append(outcome.Failed, s.Parameter)
			continue
		}
		log.Printf("✓ Maintenance alert sent for %s", s.Parameter)
		outcome.Sent = append(outcome.Sent, s.Parameter)
	}
	return outcome
}

// SendHealthAlert emails one message per disease whose probability exceeds
// the high-risk threshold.
func (n *Notifier) SendHealthAlert(report models.DiseaseRiskReport) Outcome {
	if n.mailer == nil {
		log.Println("Email notifications disabled, dropping health alert")
		return Outcome{Disabled: true}
	}

	// Deterministic send order for logs and tests.
	names := make([]string, 0, len(report))
	for name := range report {
		names = append(names, name)
	}
	sort.Strings(names)

	outcome := Outcome{}
	for _, name := range names {
		prediction := report[name]
		if prediction.Probability <= n.highRisk {
			continue
		}
		subject := "disease:" + name
		if !n.cooldowns.Allow(subject) {
			outcome.Skipped = append(outcome.Skipped, name)
			continue
		}

		title := fmt.Sprintf("High Disease Risk Alert: %s", name)
		if err := n.mailer.Send(n.healthTo, title, healthBody(name, prediction)); err != nil {
			log.Printf("❌ Failed to send health alert for %s: %v", name, err)
			outcome.Failed = append(outcome.Failed, name)
			continue
		}
		log.Printf("✓ Health alert sent for %s", name)
		outcome.Sent = append(outcome.Sent, name)
	}
	return outcome
}

func maintenanceBody(s models.MaintenanceSuggestion) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h2>Maintenance Required: %s</h2>", s.Parameter))
	b.WriteString(fmt.Sprintf("<p><b>Severity:</b> %s</p>", s.Severity))
	if s.Text != "" {
		b.WriteString(fmt.Sprintf("<p>%s</p>", s.Text))
	}
	if s.Solution != "" {
		b.WriteString(fmt.Sprintf("<p><b>Suggested action:</b> %s</p>", s.Solution))
	}
	return b.String()
}

func healthBody(name string, p models.Prediction) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h2>High Risk Detected: %s</h2>", name))
	b.WriteString(fmt.Sprintf("<p><b>Probability:</b> %.0f%%</p>", p.Probability*100))
	if p.RiskLevel != "" {
		b.WriteString(fmt.Sprintf("<p><b>Risk level:</b> %s</p>", p.RiskLevel))
	}
	b.WriteString("<p>Please review recent water quality readings and take preventive action.</p>")
	return b.String()
}
