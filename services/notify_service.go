package services

import (
	"crypto/tls"
	"fmt"
	"html"
	"log"
	"strings"

	"hotel-reservation/models"

	"gopkg.in/gomail.v2"
)

// Mailer delivers guest notifications.
type Mailer interface {
	SendReservationConfirmation(user models.User, res models.Reservation) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return &SMTPMailer{cfg: cfg, dialer: d}
}

func (m *SMTPMailer) SendReservationConfirmation(user models.User, res models.Reservation) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Reservation #%d confirmed", res.ID))
	msg.SetBody("text/plain", reservationConfirmationText(user, res))
	msg.AddAlternative("text/html", reservationConfirmationHTML(user, res))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", user.Email, err)
	}
	log.Printf("reservation %d confirmation sent to %s", res.ID, user.Email)
	return nil
}

func reservationConfirmationText(user models.User, res models.Reservation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dear %s,\n\n", user.DisplayName())
	fmt.Fprintf(&sb, "Your reservation #%d is confirmed.\n\n", res.ID)
	fmt.Fprintf(&sb, "Room: %s (%s)\n", res.AssignedRoom.Number, res.AssignedRoom.RoomType.Name)
	fmt.Fprintf(&sb, "Check-in: %s\n", res.CheckIn().Format(DateLayout))
	fmt.Fprintf(&sb, "Check-out: %s\n", res.CheckOut().Format(DateLayout))
	fmt.Fprintf(&sb, "Nights: %d\n", res.Nights())
	fmt.Fprintf(&sb, "Total: %d\n", res.Cost())
	return sb.String()
}

func reservationConfirmationHTML(user models.User, res models.Reservation) string {
	return fmt.Sprintf(`<p>Dear %s,</p>
<p>Your reservation <strong>#%d</strong> is confirmed.</p>
<table>
<tr><td>Room</td><td>%s (%s)</td></tr>
<tr><td>Check-in</td><td>%s</td></tr>
<tr><td>Check-out</td><td>%s</td></tr>
<tr><td>Nights</td><td>%d</td></tr>
<tr><td>Total</td><td>%d</td></tr>
</table>`,
		html.EscapeString(user.DisplayName()), res.ID,
		html.EscapeString(res.AssignedRoom.Number), html.EscapeString(res.AssignedRoom.RoomType.Name),
		res.CheckIn().Format(DateLayout), res.CheckOut().Format(DateLayout),
		res.Nights(), res.Cost())
}

// NoopMailer is used when no SMTP host is configured.
type NoopMailer struct{}

func (NoopMailer) SendReservationConfirmation(models.User, models.Reservation) error { return nil }
