package appointments

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

var ErrInvalidStatus = errors.New("invalid appointment status")

// Input is the public appointment request. Date is RFC3339 or YYYY-MM-DD.
type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, s)
}

// validate trims fields and returns the parsed date.
func (in *Input) validate(now time.Time) (time.Time, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Date = strings.TrimSpace(in.Date)
	in.Message = strings.TrimSpace(in.Message)

	errs := validation.Errors{}
	if in.Name == "" {
		errs.Set("name", "Le nom est obligatoire.")
	}
	switch {
	case in.Email == "":
		errs.Set("email", "L'email est obligatoire.")
	case !validation.Email(in.Email):
		errs.Set("email", "Veuillez entrer un email valide.")
	}
	var date time.Time
	if in.Date == "" {
		errs.Set("date", "La date est obligatoire.")
	} else if d, err := parseDate(in.Date); err != nil {
		errs.Set("date", "La date est invalide.")
	} else if !d.After(now) {
		errs.Set("date", "La date doit être dans le futur.")
	} else {
		date = d
	}
	return date, errs.Err()
}

type Service struct {
	repo     Repository
	notifier notify.Notifier
	now      func() time.Time
}

func NewService(r Repository, n notify.Notifier) *Service {
	if n == nil {
		n = notify.Noop{}
	}
	return &Service{repo: r, notifier: n, now: time.Now}
}

// Create stores a pending request, then emails the admin and the client.
func (s *Service) Create(ctx context.Context, in Input) (*models.Appointment, error) {
	now := s.now().UTC()
	date, err := in.validate(now)
	if err != nil {
		return nil, err
	}
	a := &models.Appointment{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Date:      date,
		Message:   in.Message,
		Status:    models.AppointmentPending,
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	metrics.Submissions.WithLabelValues("appointment").Inc()
	notify.Deliver("appointment", func() error { return s.notifier.AppointmentRequested(ctx, a) })
	return a, nil
}

// List returns requests newest first, optionally restricted to one status.
func (s *Service) List(ctx context.Context, status models.AppointmentStatus, p pagination.Params) ([]models.Appointment, pagination.Meta, error) {
	if status != "" && !status.Valid() {
		return nil, pagination.Meta{}, ErrInvalidStatus
	}
	items, total, err := s.repo.List(ctx, status, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, p.Meta(total), nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
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
