// Package notify emails a provider's solved schedule summary via SMTP.
// Grounded on go-mail's own client construction API (no repo in the
// corpus imports it with visible source).
package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/carepath/fieldsched/internal/entity"
)

// SMTPConfig bundles the outbound mail server settings.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Notifier sends schedule-ready notifications over SMTP.
type Notifier struct {
	cfg SMTPConfig
}

// NewNotifier returns a Notifier bound to the given SMTP settings.
func NewNotifier(cfg SMTPConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

// NotifyScheduleReady emails providerEmail a plain-text summary of one
// provider's solved schedule.
func (n *Notifier) NotifyScheduleReady(ctx context.Context, providerEmail string, providerID entity.ProviderID, sched *entity.Schedule) error {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(providerEmail); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject(fmt.Sprintf("Schedule ready for %s", providerID))
	msg.SetBodyString(mail.TypeTextPlain, summarize(providerID, sched))

	client, err := mail.NewClient(n.cfg.Host,
		mail.WithPort(n.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.User),
		mail.WithPassword(n.cfg.Pass),
	)
	if err != nil {
		return fmt.Errorf("building SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending schedule-ready email: %w", err)
	}
	return nil
}

func summarize(providerID entity.ProviderID, sched *entity.Schedule) string {
	summary := sched.Summary[providerID]
	return fmt.Sprintf(
		"Your schedule is ready.\n\nPatients served: %d\nDays worked: %d\nTotal travel hours: %.2f\nSolver status: %s\n",
		summary.PatientsServed, summary.DaysWorked, summary.TravelHours, sched.Metadata.Status,
	)
}
