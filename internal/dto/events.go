package dto

// MailEvent is the payload published to the mail topic and consumed by the
// mail worker. Context carries template variables only; never secrets beyond
// the code/token being delivered.
type MailEvent struct {
	Subject    string            `json:"subject"`
	Recipients []string          `json:"recipients"`
	Template   string            `json:"template"`
	Context    map[string]string `json:"context"`
}
