package worker

// notification_worker.go
// Processes decision notification jobs from QueueNotification. Sends the
// applicant an approval or rejection email; approvals carry a generated
// letter PDF. Failures never reach the workflow — the decision already
// committed by the time a job exists.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ninjaskull/dacreation-sub001/internal/infra"

	"github.com/rs/zerolog/log"
)

// NotificationPayload is the job envelope sent to QueueNotification.
type NotificationPayload struct {
	Event          string   `json:"event"` // approved | rejected
	RegistrationID string   `json:"registration_id"`
	ToEmail        string   `json:"to_email"`
	BusinessName   string   `json:"business_name"`
	ContactName    string   `json:"contact_name"`
	Categories     []string `json:"categories,omitempty"`
	Reason         string   `json:"reason,omitempty"`
}

// NotificationWorker sends decision emails through the SMTP circuit breaker.
type NotificationWorker struct {
	mailer     *infra.Mailer
	cb         *infra.CircuitBreaker
	letterPath string
}

func NewNotificationWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, letterPath string) *NotificationWorker {
	return &NotificationWorker{mailer: mailer, cb: cb, letterPath: letterPath}
}

// Process sends the decision email. A returned error sends the job to the DLQ.
func (w *NotificationWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload NotificationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		return nil // malformed jobs are unrecoverable, don't DLQ-loop them
	}
	if payload.ToEmail == "" {
		log.Warn().Str("registration_id", payload.RegistrationID).Msg("notification_worker: empty to_email — skipping")
		return nil
	}

	var subject, body, attachment string
	switch payload.Event {
	case "approved":
		subject = "Your vendor registration has been approved"
		body = fmt.Sprintf(
			"Dear %s,\n\nThe vendor registration for %s has been approved. "+
				"Please find your approval letter attached.\n\nDA Creation Vendor Relations",
			payload.ContactName, payload.BusinessName)

		letter, err := infra.GenerateApprovalLetter(infra.ApprovalLetterData{
			RegistrationID: payload.RegistrationID,
			BusinessName:   payload.BusinessName,
			ContactName:    payload.ContactName,
			Categories:     payload.Categories,
			ApprovedAt:     time.Now(),
		}, w.letterPath)
		if err != nil {
			// Send without the letter rather than dropping the notification.
			log.Error().Err(err).Str("registration_id", payload.RegistrationID).Msg("notification_worker: letter generation failed")
		} else {
			attachment = letter
		}
	case "rejected":
		subject = "Update on your vendor registration"
		body = fmt.Sprintf(
			"Dear %s,\n\nWe are unable to approve the vendor registration for %s at this time.\n\nReason: %s\n\n"+
				"You are welcome to address the issue and apply again.\n\nDA Creation Vendor Relations",
			payload.ContactName, payload.BusinessName, payload.Reason)
	default:
		log.Warn().Str("event", payload.Event).Msg("notification_worker: unknown event — skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.mailer.SendDecision(payload.ToEmail, subject, body, attachment)
	})
	if err != nil {
		log.Error().Err(err).
			Str("to", payload.ToEmail).
			Str("event", payload.Event).
			Msg("notification_worker: failed to send email")
		return err
	}

	log.Info().
		Str("to", payload.ToEmail).
		Str("event", payload.Event).
		Str("registration_id", payload.RegistrationID).
		Msg("notification_worker: decision email sent")
	return nil
}
