package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/pkg/pagination"
	"github.com/sophro-cabinet/site-backend/pkg/validation"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewMemoryRepository(), nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestCreate_Valid(t *testing.T) {
	svc := newService(t)
	a, err := svc.Create(context.Background(), Input{Name: "Paul", Email: "Paul@Example.fr ", Date: "2026-03-12T14:30:00+01:00", Message: "Première séance"})
	require.NoError(t, err)
	require.Equal(t, "paul@example.fr", a.Email)
	require.Equal(t, models.AppointmentPending, a.Status)
	require.Equal(t, time.Date(2026, 3, 12, 13, 30, 0, 0, time.UTC), a.Date)
}

func TestCreate_DateOnly(t *testing.T) {
	svc := newService(t)
	a, err := svc.Create(context.Background(), Input{Name: "Paul", Email: "paul@example.fr", Date: "2026-04-01"})
	require.NoError(t, err)
	require.Equal(t, 2026, a.Date.Year())
	require.Equal(t, time.April, a.Date.Month())
}

func TestCreate_Validation(t *testing.T) {
	svc := newService(t)
	var verrs validation.Errors

	_, err := svc.Create(context.Background(), Input{})
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 3)

	_, err = svc.Create(context.Background(), Input{Name: "Paul", Email: "paul@example.fr", Date: "2026-03-01"})
	require.ErrorAs(t, err, &verrs)
	require.Equal(t, "La date doit être dans le futur.", verrs["date"])

	_, err = svc.Create(context.Background(), Input{Name: "Paul", Email: "paul@example.fr", Date: "demain"})
	require.ErrorAs(t, err, &verrs)
	require.Equal(t, "La date est invalide.", verrs["date"])
}

func TestStatusFlow(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a, err := svc.Create(ctx, Input{Name: "Paul", Email: "paul@example.fr", Date: "2026-04-01"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, a.ID.Hex(), models.AppointmentConfirmed)
	require.NoError(t, err)
	require.Equal(t, models.AppointmentConfirmed, updated.Status)

	confirmed, meta, err := svc.List(ctx, models.AppointmentConfirmed, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	require.EqualValues(t, 1, meta.Total)

	pending, _, err := svc.List(ctx, models.AppointmentPending, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Empty(t, pending)

	_, _, err = svc.List(ctx, "done", pagination.Params{Page: 1, Limit: 10})
	require.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.UpdateStatus(ctx, a.ID.Hex(), "done")
	require.ErrorIs(t, err, ErrInvalidStatus)

	require.NoError(t, svc.Delete(ctx, a.ID.Hex()))
	require.ErrorIs(t, svc.Delete(ctx, a.ID.Hex()), models.ErrNotFound)
}
