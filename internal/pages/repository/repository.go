package repository

import (
	"context"
	"errors"

	"github.com/sophro-cabinet/site-backend/internal/pages"
)

var ErrExists = errors.New("page already exists")

// Repository persists one document per pageId. Save replaces the whole document.
type Repository interface {
	Get(ctx context.Context, pageID string) (*pages.Page, error)
	List(ctx context.Context) ([]*pages.Page, error)
	Insert(ctx context.Context, p *pages.Page) error
	Save(ctx context.Context, p *pages.Page) error
}
