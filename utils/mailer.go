package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
	"stackflow/config"
)

type EmailData struct {
	Subject   string
	To        []string
	Template  string
	Data      interface{}
	Year      int
	FromName  string
	FromEmail string
}

// Embedded email templates
var emailTemplates = map[string]string{
	"invitation": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .button { display: inline-block; padding: 10px 20px; background-color: #3498db; color: white; text-decoration: none; border-radius: 4px; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>You're invited to {{.ScopeName}}</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>{{.InviterName}} invited you to join <strong>{{.ScopeName}}</strong> on StackFlow as <strong>{{.Role}}</strong>.</p>

        <p style="text-align: center;">
            <a href="{{.AcceptLink}}" class="button">Accept invitation</a>
        </p>

        <p>This invitation expires in 7 days. If you weren't expecting it, you can safely ignore this email.</p>

        <p>Or copy and paste this link into your browser:<br>
        <small>{{.AcceptLink}}</small></p>
    </div>

    <div class="footer">
        <p>© {{.Year}} StackFlow. All rights reserved.</p>
    </div>
</body>
</html>`,

	"welcome": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Welcome to StackFlow</h2>
    </div>

    <div class="content">
        <p>Hello {{.Name}},</p>
        <p>Your account is ready. Create a workspace, add your first project and invite your team to get started.</p>
    </div>

    <div class="footer">
        <p>© {{.Year}} StackFlow. All rights reserved.</p>
    </div>
</body>
</html>`,
}

func SendEmail(data EmailData) error {
	if data.FromEmail == "" {
		data.FromEmail = config.AppConfig.FromEmail
	}
	if data.FromName == "" {
		data.FromName = "StackFlow"
	}
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}

	tmplContent, ok := emailTemplates[data.Template]
	if !ok {
		return fmt.Errorf("template '%s' not found", data.Template)
	}

	tmpl, err := template.New("email").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("error parsing template: %v", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data.Data); err != nil {
		return fmt.Errorf("error executing template: %v", err)
	}

	smtpPort, err := strconv.Atoi(config.AppConfig.SMTPPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT: %v", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", data.FromName, data.FromEmail))
	m.SetHeader("To", data.To...)
	m.SetHeader("Subject", data.Subject)
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(
		config.AppConfig.SMTPHost,
		smtpPort,
		config.AppConfig.SMTPUsername,
		config.AppConfig.SMTPPassword,
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}

	return nil
}

func SendInvitationEmail(email, inviterName, scopeName, role, token string) error {
	acceptLink := fmt.Sprintf("%s/invitations/accept?token=%s", config.AppConfig.AppURL, token)
	return SendEmail(EmailData{
		Subject:  fmt.Sprintf("You're invited to %s on StackFlow", scopeName),
		To:       []string{email},
		Template: "invitation",
		Data: struct {
			Subject     string
			InviterName string
			ScopeName   string
			Role        string
			AcceptLink  string
			Year        int
		}{
			Subject:     "Invitation",
			InviterName: inviterName,
			ScopeName:   scopeName,
			Role:        role,
			AcceptLink:  acceptLink,
			Year:        time.Now().Year(),
		},
	})
}

func SendWelcomeEmail(email, name string) error {
	return SendEmail(EmailData{
		Subject:  "Welcome to StackFlow",
		To:       []string{email},
		Template: "welcome",
		Data: struct {
			Subject string
			Name    string
			Year    int
		}{
			Subject: "Welcome",
			Name:    name,
			Year:    time.Now().Year(),
		},
	})
}
