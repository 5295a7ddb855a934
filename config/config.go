package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DatabaseDSN string
	BaseURL     string

	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string

	RedisAddr     string
	RedisPassword string

	CloudinaryUrl string

	// Mail worker settings.
	GmailUser        string
	GmailAppPassword string
	MailFrom         string
	MailFromName     string
	ResetBaseURL     string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: .env not loaded:", err)
		}
	}

	return Config{
		ServerPort:  os.Getenv("SERVER_PORT"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		BaseURL:     os.Getenv("BASE_URL"),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    os.Getenv("KAFKA_TOPIC"),
		KafkaGroupID:  os.Getenv("KAFKA_GROUP_ID"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		CloudinaryUrl: os.Getenv("CLOUDINARY_URL"),

		GmailUser:        os.Getenv("GMAIL_USER"),
		GmailAppPassword: os.Getenv("GMAIL_APP_PASSWORD"),
		MailFrom:         os.Getenv("MAIL_FROM"),
		MailFromName:     os.Getenv("MAIL_FROM_NAME"),
		ResetBaseURL:     os.Getenv("RESET_BASE_URL"),
	}
}
