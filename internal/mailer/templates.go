package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names match the keys produced by the API side.
const (
	TemplateVerification = "email_verification"
	TemplateReset        = "password_reset"
	TemplateInterview    = "application_interview"
	TemplateRejected     = "application_rejected"
)

var templates = map[string]*template.Template{
	TemplateVerification: template.Must(template.New(TemplateVerification).Parse(`<html>
<body>
  <p>Hello,</p>
  <p>Use the code below to verify your account. It expires in 20 minutes.</p>
  <h2 style="letter-spacing:4px">{{.code}}</h2>
  <p>If you did not register, you can ignore this email.</p>
</body>
</html>`)),

	TemplateReset: template.Must(template.New(TemplateReset).Parse(`<html>
<body>
  <p>Hello,</p>
  <p>We received a request to reset your password. The link below is valid for 20 minutes.</p>
  <p><a href="{{.link}}">Reset your password</a></p>
  <p>If you did not request this, you can ignore this email.</p>
</body>
</html>`)),

	TemplateInterview: template.Must(template.New(TemplateInterview).Parse(`<html>
<body>
  <p>Hello {{.applicant_name}},</p>
  <p>Good news! {{.company_name}} would like to invite you to an interview for the position of {{.job_title}}.</p>
  <p>They will contact you shortly with the details.</p>
</body>
</html>`)),

	TemplateRejected: template.Must(template.New(TemplateRejected).Parse(`<html>
<body>
  <p>Hello {{.applicant_name}},</p>
  <p>Thank you for applying for the position of {{.job_title}} at {{.company_name}}.</p>
  <p>Unfortunately they decided to move forward with other candidates this time.</p>
</body>
</html>`)),
}

// Render fills the named template with ctx and returns the HTML body.
func Render(name string, ctx map[string]string) (string, error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown mail template: %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}
