package notify

import (
	"encoding/json"
	"log"

	"github.com/hirewire/jobboard/internal/dto"
	"github.com/hirewire/jobboard/internal/interfaces"
)

// Template identifiers shared between the API service and the mail worker.
const (
	TemplateEmailVerification    = "email_verification"
	TemplatePasswordReset        = "password_reset"
	TemplateApplicationInterview = "application_interview"
	TemplateApplicationRejected  = "application_rejected"
)

// Notifier enqueues outbound email. Delivery is asynchronous and at least
// once; callers never observe delivery failures.
type Notifier interface {
	Send(subject string, recipients []string, template string, context map[string]string) error
}

type QueueNotifier struct {
	producer interfaces.ProducerHandler
}

func NewQueueNotifier(producer interfaces.ProducerHandler) *QueueNotifier {
	return &QueueNotifier{producer: producer}
}

func (n *QueueNotifier) Send(subject string, recipients []string, template string, context map[string]string) error {
	// A missing broker must not fail the credential transition that already
	// committed.
	if n == nil || n.producer == nil {
		log.Println("mail producer not ready - skip publish")
		return nil
	}

	payload, err := json.Marshal(dto.MailEvent{
		Subject:    subject,
		Recipients: recipients,
		Template:   template,
		Context:    context,
	})
	if err != nil {
		return err
	}

	return n.producer.PublishMessage([]byte(template), payload)
}
