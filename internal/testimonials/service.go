package testimonials

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/internal/notify"
	"github.com/sophro-cabinet/site-backend/pkg/metrics"
	"github.com/sophro-cabinet/site-backend/pkg/pagination"
	"github.com/sophro-cabinet/site-backend/pkg/validation"
)

var ErrInvalidStatus = errors.New("invalid testimonial status")

// Input is the public testimonial form. Visitors cannot choose the status.
type Input struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (in *Input) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Message = strings.TrimSpace(in.Message)
	errs := validation.Errors{}
	switch {
	case in.Name == "":
		errs.Set("name", "Veuillez saisir votre nom.")
	case !validation.MinLen(in.Name, 2):
		errs.Set("name", "Le nom doit contenir au moins 2 caractères.")
	}
	switch {
	case in.Message == "":
		errs.Set("message", "Veuillez saisir votre message.")
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

// Create stores a pending testimonial and notifies the admin.
func (s *Service) Create(ctx context.Context, in Input) (*models.Testimonial, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t := &models.Testimonial{
		Name:      in.Name,
		Message:   in.Message,
		Status:    models.TestimonialPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	metrics.Submissions.WithLabelValues("testimonial").Inc()
	notify.Deliver("testimonial", func() error { return s.notifier.TestimonialReceived(ctx, t) })
	return t, nil
}

// ListValidated is the public listing.
func (s *Service) ListValidated(ctx context.Context, p pagination.Params) ([]models.Testimonial, pagination.Meta, error) {
	return s.list(ctx, models.TestimonialValidated, p)
}

func (s *Service) List(ctx context.Context, p pagination.Params) ([]models.Testimonial, pagination.Meta, error) {
	return s.list(ctx, "", p)
}

func (s *Service) list(ctx context.Context, status models.TestimonialStatus, p pagination.Params) ([]models.Testimonial, pagination.Meta, error) {
	items, total, err := s.repo.List(ctx, status, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, p.Meta(total), nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status models.TestimonialStatus) (*models.Testimonial, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	oid, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateStatus(ctx, oid, status)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := models.ParseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, oid)
}
