package mailer

import (
	"encoding/json"
	"log"

	"github.com/hirewire/jobboard/internal/dto"
)

type MailHandler struct {
	MailService *MailService
}

func NewMailHandler(ms *MailService) *MailHandler {
	return &MailHandler{MailService: ms}
}

func (h *MailHandler) HandleMessage(message string) error {
	var event dto.MailEvent

	if err := json.Unmarshal([]byte(message), &event); err != nil {
		log.Printf("invalid event payload: %s\n", message)
		return err
	}

	log.Printf("Mail event received: template=%s recipients=%d",
		event.Template, len(event.Recipients))

	if event.Context == nil {
		event.Context = map[string]string{}
	}

	err := h.MailService.Send(event.Subject, event.Recipients, event.Template, event.Context)
	if err != nil {
		log.Println("[MAIL] send failed:", err)
	}
	return err
}
