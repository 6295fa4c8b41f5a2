package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sophro-cabinet/site-backend/internal/config"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/pkg/logger"
	"github.com/sophro-cabinet/site-backend/pkg/metrics"
	"gopkg.in/gomail.v2"
)

// Notifier sends the emails triggered by public submissions.
type Notifier interface {
	ContactReceived(ctx context.Context, m *models.ContactMessage) error
	TestimonialReceived(ctx context.Context, t *models.Testimonial) error
	AppointmentRequested(ctx context.Context, a *models.Appointment) error
}

// Sender is the subset of *gomail.Dialer used to deliver messages.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// New returns an SMTP notifier when mail is configured, otherwise a no-op one.
func New(cfg config.MailConfig) Notifier {
	if !cfg.Enabled() {
		logger.Infof("SMTP not configured; email notifications disabled")
		return Noop{}
	}
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return NewMailer(d, cfg.From, cfg.FromName, cfg.AdminRecipient)
}

// Mailer implements Notifier over SMTP with plain-text bodies.
type Mailer struct {
	sender   Sender
	from     string
	fromName string
	admin    string
}

func NewMailer(s Sender, from, fromName, admin string) *Mailer {
	return &Mailer{sender: s, from: from, fromName: fromName, admin: admin}
}

func (m *Mailer) message(to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}

// send delivers each message on its own so a bad visitor address does not
// prevent the admin notification.
func (m *Mailer) send(kind string, msgs ...*gomail.Message) error {
	var errs []error
	for _, msg := range msgs {
		if err := m.sender.DialAndSend(msg); err != nil {
			metrics.MailsSent.WithLabelValues(kind, "error").Inc()
			errs = append(errs, fmt.Errorf("send %s mail to %v: %w", kind, msg.GetHeader("To"), err))
			continue
		}
		metrics.MailsSent.WithLabelValues(kind, "sent").Inc()
	}
	return errors.Join(errs...)
}

func (m *Mailer) ContactReceived(ctx context.Context, c *models.ContactMessage) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Nouveau message de contact\n\n")
	fmt.Fprintf(&b, "Nom : %s\nEmail : %s\nTéléphone : %s\n\n", c.Name, c.Email, c.Phone)
	fmt.Fprintf(&b, "Message :\n%s\n\nReçu le %s\n", c.Message, formatDate(c.CreatedAt))
	toAdmin := m.message(m.admin, "Nouveau message de "+c.Name, b.String())
	toAdmin.SetHeader("Reply-To", c.Email)

	ack := m.message(c.Email, "Votre message a bien été reçu",
		fmt.Sprintf("Bonjour %s,\n\nMerci pour votre message. Je vous répondrai dans les plus brefs délais.\n\nBien cordialement,\n%s\n", c.Name, m.fromName))
	return m.send("contact", toAdmin, ack)
}

func (m *Mailer) TestimonialReceived(ctx context.Context, t *models.Testimonial) error {
	body := fmt.Sprintf("Nouveau témoignage en attente de validation\n\nNom : %s\n\nMessage :\n%s\n\nReçu le %s\n",
		t.Name, t.Message, formatDate(t.CreatedAt))
	return m.send("testimonial", m.message(m.admin, "Nouveau témoignage de "+t.Name, body))
}

func (m *Mailer) AppointmentRequested(ctx context.Context, a *models.Appointment) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Nouvelle demande de rendez-vous\n\n")
	fmt.Fprintf(&b, "Nom : %s\nEmail : %s\n", a.Name, a.Email)
	if a.Phone != "" {
		fmt.Fprintf(&b, "Téléphone : %s\n", a.Phone)
	}
	fmt.Fprintf(&b, "Date souhaitée : %s\n", formatDate(a.Date))
	if a.Message != "" {
		fmt.Fprintf(&b, "\nMessage :\n%s\n", a.Message)
	}
	toAdmin := m.message(m.admin, "Demande de rendez-vous de "+a.Name, b.String())
	toAdmin.SetHeader("Reply-To", a.Email)

	confirm := m.message(a.Email, "Votre demande de rendez-vous",
		fmt.Sprintf("Bonjour %s,\n\nVotre demande de rendez-vous pour le %s a bien été enregistrée. Je reviens vers vous rapidement pour la confirmer.\n\nBien cordialement,\n%s\n",
			a.Name, formatDate(a.Date), m.fromName))
	return m.send("appointment", toAdmin, confirm)
}

var paris = loadParis()

func loadParis() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return time.UTC
	}
	return loc
}

func formatDate(t time.Time) string {
	return t.In(paris).Format("02/01/2006 15:04")
}

// Noop drops every notification.
type Noop struct{}

func (Noop) ContactReceived(ctx context.Context, m *models.ContactMessage) error {
	logger.Debugf("mail disabled: contact message from %s not forwarded", m.Email)
	return nil
}

func (Noop) TestimonialReceived(ctx context.Context, t *models.Testimonial) error {
	logger.Debugf("mail disabled: testimonial from %s not forwarded", t.Name)
	return nil
}

func (Noop) AppointmentRequested(ctx context.Context, a *models.Appointment) error {
	logger.Debugf("mail disabled: appointment request from %s not forwarded", a.Email)
	return nil
}

// Deliver runs send and logs a failure instead of returning it; submissions
// are already stored when notifications go out.
func Deliver(kind string, send func() error) {
	if err := send(); err != nil {
		logger.Errorf("%s notification failed: %v", kind, err)
	}
}
