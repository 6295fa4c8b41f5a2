package notify

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sophro-cabinet/site-backend/internal/config"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/pkg/metrics"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent   []*gomail.Message
	failTo string
}

func (f *fakeSender) DialAndSend(msgs ...*gomail.Message) error {
	for _, m := range msgs {
		if to := m.GetHeader("To"); len(to) > 0 && to[0] == f.failTo {
			return errors.New("smtp: mailbox unavailable")
		}
		f.sent = append(f.sent, m)
	}
	return nil
}

func body(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestNew_DisabledWithoutSMTP(t *testing.T) {
	n := New(config.MailConfig{})
	require.IsType(t, Noop{}, n)
	require.NoError(t, n.ContactReceived(context.Background(), &models.ContactMessage{}))
}

func TestMailer_ContactReceived(t *testing.T) {
	s := &fakeSender{}
	m := NewMailer(s, "cabinet@example.fr", "Cabinet", "admin@example.fr")
	c := &models.ContactMessage{Name: "Claire", Email: "claire@example.fr", Phone: "0612345678", Message: "Bonjour, une question", CreatedAt: time.Now()}

	require.NoError(t, m.ContactReceived(context.Background(), c))
	require.Len(t, s.sent, 2)
	require.Equal(t, []string{"admin@example.fr"}, s.sent[0].GetHeader("To"))
	require.Equal(t, []string{"claire@example.fr"}, s.sent[0].GetHeader("Reply-To"))
	require.Equal(t, []string{"claire@example.fr"}, s.sent[1].GetHeader("To"))
	require.Contains(t, body(t, s.sent[0]), "0612345678")
}

func TestMailer_PartialFailure(t *testing.T) {
	s := &fakeSender{failTo: "bad@example.fr"}
	m := NewMailer(s, "cabinet@example.fr", "Cabinet", "admin@example.fr")
	before := testutil.ToFloat64(metrics.MailsSent.WithLabelValues("appointment", "error"))

	err := m.AppointmentRequested(context.Background(), &models.Appointment{Name: "Paul", Email: "bad@example.fr", Date: time.Now().Add(48 * time.Hour)})
	require.Error(t, err)
	// admin copy still delivered
	require.Len(t, s.sent, 1)
	require.Equal(t, []string{"admin@example.fr"}, s.sent[0].GetHeader("To"))
	require.Equal(t, before+1, testutil.ToFloat64(metrics.MailsSent.WithLabelValues("appointment", "error")))
}

func TestMailer_TestimonialOnlyAdmin(t *testing.T) {
	s := &fakeSender{}
	m := NewMailer(s, "cabinet@example.fr", "Cabinet", "admin@example.fr")
	require.NoError(t, m.TestimonialReceived(context.Background(), &models.Testimonial{Name: "Anne", Message: "Très belles séances"}))
	require.Len(t, s.sent, 1)
	subject := s.sent[0].GetHeader("Subject")
	require.Len(t, subject, 1)
	decoded, err := new(mime.WordDecoder).DecodeHeader(subject[0])
	require.NoError(t, err)
	require.Equal(t, "Nouveau témoignage de Anne", decoded)
}

func TestDeliver_SwallowsError(t *testing.T) {
	called := false
	Deliver("contact", func() error { called = true; return errors.New("boom") })
	require.True(t, called)
}
