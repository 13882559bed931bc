package usecase

import (
	"context"
	"fmt"
	"html"

	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/model"
)

// Notifier delivers a message to a single recipient. Delivery is not
// retried; a failure is reported to the caller once.
type Notifier interface {
	SendHTML(ctx context.Context, to, subject, htmlBody string) error
}

const (
	verificationSubject = "Verify your email address"
	confirmationSubject = "Appointment Confirmation"
	cancellationSubject = "Your Appointment Has Been Cancelled"
)

func verificationEmail(code string) (string, string) {
	body := fmt.Sprintf(`
		<h2>Verify Your Email</h2>
		<p>Your verification code is <b>%s</b></p>
		<p>Enter this code on the verification page to activate your account.</p>
	`, html.EscapeString(code))

	return verificationSubject, body
}

func confirmationEmail(a *model.Appointment) (string, string) {
	body := fmt.Sprintf(`
		<h2>Appointment Confirmed</h2>
		<p>Your appointment has been confirmed.</p>
		<table>
			<tr><td><b>Type:</b></td><td>%s</td></tr>
			<tr><td><b>Date:</b></td><td>%s</td></tr>
			<tr><td><b>Time:</b></td><td>%s</td></tr>
		</table>
		<p>Please make sure to arrive on time.</p>
	`, html.EscapeString(a.Type), html.EscapeString(a.Date), html.EscapeString(a.Time))

	return confirmationSubject, body
}

func cancellationEmail(a *model.Appointment) (string, string) {
	body := fmt.Sprintf(`
		<h2>Appointment Cancelled</h2>
		<p>Your appointment for <b>%s</b> on <b>%s</b> at <b>%s</b> has been cancelled.</p>
		<p>If this was a mistake, please log in and book again.</p>
	`, html.EscapeString(a.Type), html.EscapeString(a.Date), html.EscapeString(a.Time))

	return cancellationSubject, body
}
