package main

import (
	"log"

	"github.com/hirewire/jobboard/config"
	"github.com/hirewire/jobboard/infra/queue"
	"github.com/hirewire/jobboard/internal/mailer"
)

func main() {
	cfg := config.LoadConfig()

	log.Println("Mail worker starting...")
	log.Printf("KafkaBroker=%s Topic=%s GroupID=%s\n",
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
	)

	mailService := mailer.NewMailService(
		cfg.GmailUser,
		cfg.GmailAppPassword,
		cfg.MailFrom,
		cfg.MailFromName,
		cfg.ResetBaseURL,
	)

	handler := mailer.NewMailHandler(mailService)

	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		handler,
	)

	log.Println("Mail worker listening for events...")
	consumer.Listen()
}
