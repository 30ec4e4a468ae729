package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPSettings holds the dialer credentials, set once at startup.
type SMTPSettings struct {
	Host     string
	Port     int
	From     string
	Password string
}

var smtpSettings SMTPSettings

func ConfigureSMTP(s SMTPSettings) {
	smtpSettings = s
}

func SendEmail(to, subject, body string) error {
	if smtpSettings.Host == "" || smtpSettings.From == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", smtpSettings.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(smtpSettings.Host, smtpSettings.Port, smtpSettings.From, smtpSettings.Password)
	if err := d.DialAndSend(msg); err != nil {
		Logger.Errorf("failed to send email to %s", to)
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

// emailShell wraps a content block in the shared Gamyartha template.
func emailShell(title, content string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>%s</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f6f8f7;
			margin: 0;
			padding: 0;
			color: #333;
		}
		.container {
			max-width: 480px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 12px;
			box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
			overflow: hidden;
			border-top: 5px solid #1b3a6b;
		}
		.header {
			background-color: #1b3a6b;
			color: #ffffff;
			text-align: center;
			padding: 18px 12px;
		}
		.header h1 {
			margin: 0;
			font-size: 18px;
			font-weight: 600;
		}
		.content {
			padding: 20px 18px;
		}
		.message {
			font-size: 14px;
			line-height: 1.6;
			color: #444;
		}
		.highlight-box {
			background: #f2f6fd;
			border: 1px solid #bfd2e7;
			border-radius: 8px;
			padding: 12px 14px;
			margin: 16px 0;
			text-align: center;
		}
		.highlight-box h3 {
			margin: 0;
			color: #1b3a6b;
			font-size: 16px;
			font-weight: 700;
		}
		.highlight-box p {
			margin: 6px 0 0;
			font-size: 13px;
			color: #555;
		}
		.footer {
			background: #f0f3f6;
			text-align: center;
			padding: 14px;
			font-size: 12px;
			color: #777;
			border-top: 1px solid #e5e5e5;
		}
		.brand {
			color: #1b3a6b;
			font-weight: bold;
		}
	</style>
	</head>

	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				%s
			</div>
			<div class="footer">
				&copy; %d <span class="brand">Gamyartha</span> — Know Your Money. Reach Your Goals.
			</div>
		</div>
	</body>
	</html>
	`, title, title, content, currentYear())
}
