package service

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dm9/collections-engine/internal/domain"
	"github.com/dm9/collections-engine/internal/email"
	"github.com/dm9/collections-engine/internal/repository"
	"github.com/dm9/collections-engine/pkg/utils"
)

// Dispatcher resolves the recipient set for an alert, records an
// EmailNotification row per recipient and hands the rendered message to the
// delivery transport. One recipient's failure never blocks the rest.
type Dispatcher struct {
	userRepo     repository.UserRepository
	consumerRepo repository.ConsumerRepository
	notifRepo    repository.NotificationRepository
	sender       email.Sender
	clock        Clock
	logger       *logrus.Logger
}

func NewDispatcher(
	userRepo repository.UserRepository,
	consumerRepo repository.ConsumerRepository,
	notifRepo repository.NotificationRepository,
	sender email.Sender,
	clock Clock,
	logger *logrus.Logger,
) *Dispatcher {
	return &Dispatcher{
		userRepo:     userRepo,
		consumerRepo: consumerRepo,
		notifRepo:    notifRepo,
		sender:       sender,
		clock:        clock,
		logger:       logger,
	}
}

var bodyTemplate = template.Must(template.New("alert_email").Parse(`
<html>
<body>
    <h2>Collections Alert Notification</h2>
    <p><strong>Alert Type:</strong> {{.AlertType}}</p>
    <p><strong>Priority:</strong> {{.Priority}}</p>
    <p><strong>Message:</strong> {{.Message}}</p>
    {{if .DueDate}}<p><strong>Due Date:</strong> {{.DueDate}}</p>{{end}}
    {{if .AccountID}}<p><strong>Account ID:</strong> {{.AccountID}}</p>{{end}}
    {{if .ConsumerName}}<p><strong>Consumer:</strong> {{.ConsumerName}}</p>{{end}}
    <p><strong>Created:</strong> {{.CreatedAt}}</p>
    <hr>
    <p><small>DM9 Collections Management System</small></p>
</body>
</html>
`))

type bodyData struct {
	AlertType    string
	Priority     string
	Message      string
	DueDate      string
	AccountID    string
	ConsumerName string
	CreatedAt    string
}

// DispatchAlertNotifications sends the alert to every resolved recipient.
func (d *Dispatcher) DispatchAlertNotifications(ctx context.Context, alert *domain.Alert) {
	recipients, err := d.ResolveRecipients(ctx, alert)
	if err != nil {
		d.logger.WithError(err).WithField("alert_id", alert.ID).
			Warn("recipient resolution failed, alert remains actionable without notification")
		return
	}
	if len(recipients) == 0 {
		d.logger.WithField("alert_id", alert.ID).Debug("no recipients resolved for alert")
		return
	}

	subject := "[" + strings.ToUpper(alert.Priority) + "] " + alert.Title
	body, err := d.renderBody(ctx, alert)
	if err != nil {
		d.logger.WithError(err).WithField("alert_id", alert.ID).Error("failed to render alert email body")
		return
	}

	for _, recipient := range recipients {
		d.sendOne(ctx, alert, recipient, subject, body)
	}
}

// ResolveRecipients computes the deduplicated recipient set: the assigned
// officer, active collections managers in the officer's region, and active
// administrators when the alert is critical.
func (d *Dispatcher) ResolveRecipients(ctx context.Context, alert *domain.Alert) ([]string, error) {
	var recipients []string

	if alert.AssignedTo.Valid {
		officer, err := d.userRepo.GetByID(ctx, alert.AssignedTo.UUID)
		if err != nil {
			d.logger.WithError(err).WithField("officer_id", alert.AssignedTo.UUID).
				Warn("assigned officer lookup failed, skipping officer recipients")
		} else {
			if officer.Email != "" {
				recipients = append(recipients, officer.Email)
			}

			if officer.RegionID.Valid {
				managers, err := d.userRepo.ListActiveManagersByRegion(ctx, officer.RegionID.UUID)
				if err != nil {
					return nil, err
				}
				for _, manager := range managers {
					if manager.Email != "" {
						recipients = append(recipients, manager.Email)
					}
				}
			}
		}
	}

	if alert.Priority == domain.AlertPriorityCritical {
		admins, err := d.userRepo.ListActiveAdministrators(ctx)
		if err != nil {
			return nil, err
		}
		for _, admin := range admins {
			if admin.Email != "" {
				recipients = append(recipients, admin.Email)
			}
		}
	}

	return dedupeStrings(recipients), nil
}

func (d *Dispatcher) sendOne(ctx context.Context, alert *domain.Alert, recipient, subject, body string) {
	notification := &domain.EmailNotification{
		ID:             uuid.New(),
		RecipientEmail: recipient,
		Subject:        subject,
		Body:           body,
		AlertID:        uuid.NullUUID{UUID: alert.ID, Valid: true},
		Status:         domain.NotificationStatusPending,
		CreatedAt:      d.clock.Now(),
	}

	if err := d.notifRepo.Create(ctx, notification); err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"alert_id":  alert.ID,
			"recipient": recipient,
		}).Error("failed to record email notification")
		return
	}

	if err := d.sender.Send(recipient, subject, body); err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"alert_id":  alert.ID,
			"recipient": recipient,
		}).Warn("email delivery failed")

		if err := d.notifRepo.MarkFailed(ctx, notification.ID); err != nil {
			d.logger.WithError(err).WithField("notification_id", notification.ID).
				Error("failed to mark notification failed")
		}
		return
	}

	if err := d.notifRepo.MarkSent(ctx, notification.ID, d.clock.Now()); err != nil {
		d.logger.WithError(err).WithField("notification_id", notification.ID).
			Error("failed to mark notification sent")
	}
}

func (d *Dispatcher) renderBody(ctx context.Context, alert *domain.Alert) (string, error) {
	data := bodyData{
		AlertType: titleCase(strings.ReplaceAll(alert.AlertType, "_", " ")),
		Priority:  strings.ToUpper(alert.Priority),
		Message:   alert.Message,
		CreatedAt: alert.CreatedAt.Format("2006-01-02 15:04"),
	}

	if alert.DueDate.Valid {
		data.DueDate = utils.FormatDate(alert.DueDate.Time)
	}
	if alert.AccountID.Valid {
		data.AccountID = alert.AccountID.UUID.String()
	}
	if alert.ConsumerID.Valid {
		consumer, err := d.consumerRepo.GetByID(ctx, alert.ConsumerID.UUID)
		if err == nil {
			data.ConsumerName = consumer.FullName()
		}
	}

	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
