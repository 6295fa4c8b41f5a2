package contact

import (
	"context"
	"strings"
	"time"

	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/internal/notify"
	"github.com/sophro-cabinet/site-backend/pkg/metrics"
	"github.com/sophro-cabinet/site-backend/pkg/pagination"
	"github.com/sophro-cabinet/site-backend/pkg/validation"
)

// Input is the public contact form.
type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Validate trims the fields and returns validation.Errors keyed by field.
func (in *Input) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)

	errs := validation.Errors{}
	switch {
	case in.Name == "":
		errs.Set("name", "Le prénom est requis.")
	case !validation.MinLen(in.Name, 2):
		errs.Set("name", "Le prénom doit contenir au moins 2 caractères.")
	}
	switch {
	case in.Email == "":
		errs.Set("email", "L'email est requis.")
	case !validation.Email(in.Email):
		errs.Set("email", "Veuillez entrer un email valide.")
	}
	switch {
	case in.Phone == "":
		errs.Set("phone", "Le numéro de téléphone est requis.")
	case !validation.FrenchPhone(in.Phone):
		errs.Set("phone", "Veuillez entrer un numéro de téléphone valide (format français).")
	}
	switch {
	case in.Message == "":
		errs.Set("message", "Le message est requis.")
	case !validation.MinLen(in.Message, 10):
		errs.Set("message", "Le message doit contenir au moins 10 caractères.")
	}
	return errs.Err()
}

type Service struct {
	repo     Repository
	notifier notify.Notifier
}

func NewService(r Repository, n notify.Notifier) *Service {
	if n == nil {
		n = notify.Noop{}
	}
	return &Service{repo: r, notifier: n}
}

// Create stores the message first; email failures never fail the submission.
func (s *Service) Create(ctx context.Context, in Input) (*models.ContactMessage, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	msg := &models.ContactMessage{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	metrics.Submissions.WithLabelValues("contact").Inc()
	notify.Deliver("contact", func() error { return s.notifier.ContactReceived(ctx, msg) })
	return msg, nil
}

func (s *Service) List(ctx context.Context, p pagination.Params) ([]models.ContactMessage, pagination.Meta, error) {
	items, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, p.Meta(total), nil
}

func (s *Service) MarkAnswered(ctx context.Context, id string) (*models.ContactMessage, error) {
	oid, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.MarkAnswered(ctx, oid)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := models.ParseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, oid)
}
