package mailer

import (
	"fmt"
	"strings"
)

// TemplateWelcome is sent once after signup.
const TemplateWelcome = "welcome"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or Subject with Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// WelcomeData feeds the welcome templates.
type WelcomeData struct {
	Name        string
	Email       string
	CompanyName string
	LoginURL    string
}

func (d WelcomeData) ToMap() map[string]any {
	return map[string]any{
		"Name":        d.Name,
		"Email":       d.Email,
		"CompanyName": d.CompanyName,
		"LoginURL":    d.LoginURL,
	}
}

// EnsureRecipient fills Data.Email from To when the producer left it out.
func EnsureRecipient(job *EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || strings.TrimSpace(fmt.Sprintf("%v", v)) == "" {
		job.Data["Email"] = job.To
	}
}
