package models

type EmailNotificationRequest struct {
	To          string   `json:"to" validate:"required,email"`
	CC          []string `json:"cc,omitempty"`
	BCC         []string `json:"bcc,omitempty"`
	Subject     string   `json:"subject" validate:"required"`
	Content     string   `json:"content"`
	HTMLContent string   `json:"html_content,omitempty"`
}
