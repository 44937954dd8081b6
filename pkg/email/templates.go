package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// SubmittedAtLayout matches the en-US locale string the form has always shown.
const SubmittedAtLayout = "1/2/2006, 3:04:05 PM"

// ContactEmailData holds the data for the owner notification
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Message     string
	SubmittedAt time.Time
}

// MessageLines splits the message on line breaks; the template joins them with <br>.
func (d ContactEmailData) MessageLines() []string {
	normalized := strings.ReplaceAll(d.Message, "\r\n", "\n")
	return strings.Split(normalized, "\n")
}

// SubmittedAtText renders the submission timestamp.
func (d ContactEmailData) SubmittedAtText() string {
	return d.SubmittedAt.Format(SubmittedAtLayout)
}

// AutoReplyData personalises the acknowledgment sent to the submitter
type AutoReplyData struct {
	Name       string
	Subject    string
	OwnerName  string
	OwnerTitle string
}

// OwnerNotificationSubject is the subject line of the owner notification.
func OwnerNotificationSubject(subject string) string {
	return "New Contact Form Submission: " + subject
}

// AutoReplySubject is the fixed subject line of the auto-reply.
func AutoReplySubject(ownerName string) string {
	if ownerName == "" {
		return "Thank you for reaching out!"
	}
	return "Thank you for reaching out! - " + ownerName
}

// ownerNotificationTemplate is the HTML template for contact form notifications
const ownerNotificationTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f9f9;">
  <div style="background: linear-gradient(135deg, #D4AF37, #B8941F); padding: 20px; border-radius: 10px; margin-bottom: 20px;">
    <h2 style="color: white; margin: 0; text-align: center;">New Contact Form Submission</h2>
  </div>

  <div style="background: white; padding: 20px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1);">
    <h3 style="color: #333; margin-top: 0;">Contact Details:</h3>
    <table style="width: 100%; border-collapse: collapse;">
      <tr>
        <td style="padding: 8px 0; border-bottom: 1px solid #eee; font-weight: bold; color: #555;">Name:</td>
        <td style="padding: 8px 0; border-bottom: 1px solid #eee; color: #333;">{{.SenderName}}</td>
      </tr>
      <tr>
        <td style="padding: 8px 0; border-bottom: 1px solid #eee; font-weight: bold; color: #555;">Email:</td>
        <td style="padding: 8px 0; border-bottom: 1px solid #eee; color: #333;">{{.SenderEmail}}</td>
      </tr>
      <tr>
        <td style="padding: 8px 0; border-bottom: 1px solid #eee; font-weight: bold; color: #555;">Subject:</td>
        <td style="padding: 8px 0; border-bottom: 1px solid #eee; color: #333;">{{.Subject}}</td>
      </tr>
    </table>

    <h3 style="color: #333; margin-top: 20px;">Message:</h3>
    <div style="background: #f8f9fa; padding: 15px; border-radius: 5px; border-left: 4px solid #D4AF37;">
      <p style="margin: 0; color: #333; line-height: 1.6;">{{range $i, $line := .MessageLines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
    </div>

    <div style="margin-top: 20px; padding: 15px; background: #e8f4fd; border-radius: 5px; border-left: 4px solid #2196F3;">
      <p style="margin: 0; color: #1976D2; font-size: 14px;">
        <strong>Quick Actions:</strong><br>
        &bull; Reply directly to: <a href="mailto:{{.SenderEmail}}" style="color: #1976D2;">{{.SenderEmail}}</a><br>
        &bull; Submitted on: {{.SubmittedAtText}}
      </p>
    </div>
  </div>

  <div style="text-align: center; margin-top: 20px; color: #666; font-size: 12px;">
    <p>This message was sent from your portfolio contact form.</p>
  </div>
</div>`

// autoReplyTemplate is the acknowledgment sent back to the submitter
const autoReplyTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f9f9;">
  <div style="background: linear-gradient(135deg, #D4AF37, #B8941F); padding: 20px; border-radius: 10px; margin-bottom: 20px; text-align: center;">
    <h2 style="color: white; margin: 0;">Thank You for Your Message!</h2>
  </div>

  <div style="background: white; padding: 20px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1);">
    <p style="color: #333; font-size: 16px; line-height: 1.6;">Hi {{.Name}},</p>

    <p style="color: #333; line-height: 1.6;">
      Thank you for reaching out! I've received your message about "<strong>{{.Subject}}</strong>" and I'm excited to learn more about your project.
    </p>

    <p style="color: #333; line-height: 1.6;">
      I typically respond within 24 hours, so you can expect to hear back from me soon. In the meantime, feel free to check out my recent work on my portfolio.
    </p>

    <div style="background: #f8f9fa; padding: 15px; border-radius: 5px; border-left: 4px solid #D4AF37; margin: 20px 0;">
      <h3 style="color: #333; margin-top: 0;">What's Next?</h3>
      <ul style="color: #333; line-height: 1.6;">
        <li>I'll review your message and get back to you with detailed thoughts</li>
        <li>We can schedule a call to discuss your project in detail</li>
        <li>I'll provide you with a customized proposal based on your needs</li>
      </ul>
    </div>

    <p style="color: #333; line-height: 1.6;">
      Looking forward to working together!
    </p>

    <p style="color: #333; line-height: 1.6;">
      Best regards,<br>
      <strong>{{.OwnerName}}</strong>{{if .OwnerTitle}}<br>
      {{.OwnerTitle}}{{end}}
    </p>
  </div>

  <div style="text-align: center; margin-top: 20px; color: #666; font-size: 12px;">
    <p>This is an automated response. Please do not reply to this email.</p>
  </div>
</div>`

var (
	ownerNotificationTmpl = template.Must(template.New("owner_notification").Parse(ownerNotificationTemplate))
	autoReplyTmpl         = template.Must(template.New("auto_reply").Parse(autoReplyTemplate))
)

// RenderOwnerNotification renders the notification body. All values are HTML-escaped.
func RenderOwnerNotification(data ContactEmailData) (string, error) {
	var body bytes.Buffer
	if err := ownerNotificationTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute owner notification template: %w", err)
	}
	return body.String(), nil
}

// RenderAutoReply renders the auto-reply body. All values are HTML-escaped.
func RenderAutoReply(data AutoReplyData) (string, error) {
	var body bytes.Buffer
	if err := autoReplyTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute auto-reply template: %w", err)
	}
	return body.String(), nil
}
