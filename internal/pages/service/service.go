package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/internal/pages"
	"github.com/sophro-cabinet/site-backend/internal/pages/repository"
	"github.com/sophro-cabinet/site-backend/pkg/logger"
	"github.com/sophro-cabinet/site-backend/pkg/metrics"
	"github.com/sophro-cabinet/site-backend/pkg/pagination"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrUnknownPage = errors.New("unknown page id")
	// ErrUnavailable is returned publicly for draft and archived pages.
	ErrUnavailable  = errors.New("page not published")
	ErrNoDraft      = errors.New("page has no draft")
	ErrInvalidOrder = errors.New("section ids must list every current section exactly once")
)

// InvalidDataError lists every problem found in a page payload.
type InvalidDataError struct {
	Details []string
}

func (e *InvalidDataError) Error() string {
	return "invalid page data: " + strings.Join(e.Details, "; ")
}

// SectionInput is a section as sent by the editor. Order is optional and
// defaults to the section's position.
type SectionInput struct {
	pages.Section
	Order *int `json:"order"`
}

// Patch is a partial page update. Nil fields are left untouched.
type Patch struct {
	Title           *string        `json:"title"`
	MetaDescription *string        `json:"metaDescription"`
	Sections        []SectionInput `json:"sections"`
	Status          *pages.Status  `json:"status"`
}

type DraftInput struct {
	Title           string         `json:"title"`
	MetaDescription string         `json:"metaDescription"`
	Sections        []SectionInput `json:"sections"`
}

// Summary is a page entry in the admin list.
type Summary struct {
	PageID         string       `json:"pageId"`
	Title          string       `json:"title"`
	Status         pages.Status `json:"status"`
	CurrentVersion int          `json:"currentVersion"`
	LastModified   time.Time    `json:"lastModified"`
	pages.Info
	Stats         pages.Stats `json:"stats"`
	SectionsCount int         `json:"sectionsCount"`
}

// Detail is the admin view of one page.
type Detail struct {
	PageID          string          `json:"pageId"`
	Title           string          `json:"title"`
	MetaDescription string          `json:"metaDescription"`
	Sections        []pages.Section `json:"sections"`
	Status          pages.Status    `json:"status"`
	CurrentVersion  int             `json:"currentVersion"`
	LastModified    time.Time       `json:"lastModified"`
	Draft           *pages.Draft    `json:"draft,omitempty"`
	Stats           pages.Stats     `json:"stats"`
	Versions        []pages.Version `json:"versions,omitempty"`
}

type VersionSummary struct {
	VersionNumber int       `json:"versionNumber"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	Comment       string    `json:"comment"`
	SectionsCount int       `json:"sectionsCount"`
}

// Service defines the page operations used by the handler layer.
type Service interface {
	Public(ctx context.Context, pageID string) (*pages.Page, error)
	ListAdmin(ctx context.Context, by string) ([]Summary, int, error)
	GetAdmin(ctx context.Context, pageID string, includeVersions bool, by string) (*Detail, error)
	Update(ctx context.Context, pageID string, patch Patch, comment, by string) (*Detail, error)
	ListVersions(ctx context.Context, pageID string, p pagination.Params) ([]VersionSummary, int, pagination.Meta, error)
	GetVersion(ctx context.Context, pageID string, n int) (*pages.Version, error)
	RestoreVersion(ctx context.Context, pageID string, n int, comment, by string) (*Detail, error)
	SaveDraft(ctx context.Context, pageID string, in DraftInput, by string) (*pages.Draft, error)
	PublishDraft(ctx context.Context, pageID, comment, by string) (*Detail, error)
	DiscardDraft(ctx context.Context, pageID string) error
	ReorderSections(ctx context.Context, pageID string, ids []string, by string) (*Detail, error)
}

// New returns a Service over the given repository.
func New(repo repository.Repository) Service {
	return &pageService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return New(repository.NewMemoryRepo())
}

// NewMongoService returns a Service backed by a MongoDB collection.
func NewMongoService(ctx context.Context, col *mongo.Collection) (Service, error) {
	repo, err := repository.NewMongoRepo(ctx, col)
	if err != nil {
		return nil, err
	}
	return New(repo), nil
}

type pageService struct {
	repo repository.Repository
	now  func() time.Time
	// serializes read-modify-write cycles within this process
	mu sync.Mutex
}

// load fetches the page, creating it from the shipped defaults when missing.
func (s *pageService) load(ctx context.Context, pageID, by string) (*pages.Page, error) {
	if !pages.Valid(pageID) {
		return nil, ErrUnknownPage
	}
	p, err := s.repo.Get(ctx, pageID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	p, err = pages.NewDefault(pageID, by, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		if errors.Is(err, repository.ErrExists) {
			return s.repo.Get(ctx, pageID)
		}
		return nil, fmt.Errorf("create default page %s: %w", pageID, err)
	}
	logger.Infof("created page %s from default content (%d sections)", pageID, len(p.Sections))
	return p, nil
}

// existing fetches the page without creating it.
func (s *pageService) existing(ctx context.Context, pageID string) (*pages.Page, error) {
	if !pages.Valid(pageID) {
		return nil, ErrUnknownPage
	}
	return s.repo.Get(ctx, pageID)
}

func (s *pageService) Public(ctx context.Context, pageID string) (*pages.Page, error) {
	p, err := s.load(ctx, pageID, "")
	if err != nil {
		return nil, err
	}
	if p.Status != pages.StatusPublished {
		return nil, ErrUnavailable
	}
	p.Sections = pages.VisibleSections(p.Sections)
	p.Versions = nil
	p.Draft = nil
	return p, nil
}

func (s *pageService) ListAdmin(ctx context.Context, by string) ([]Summary, int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.PageID] = true
	}
	created := 0
	for _, id := range pages.IDs() {
		if have[id] {
			continue
		}
		if _, err := s.load(ctx, id, by); err != nil {
			logger.Errorf("create missing page %s: %v", id, err)
			continue
		}
		created++
	}
	all := existing
	if created > 0 {
		if all, err = s.repo.List(ctx); err != nil {
			return nil, 0, err
		}
	}
	out := make([]Summary, 0, len(all))
	for _, p := range all {
		info, _ := pages.Lookup(p.PageID)
		out = append(out, Summary{
			PageID:         p.PageID,
			Title:          p.Title,
			Status:         p.Status,
			CurrentVersion: p.CurrentVersion,
			LastModified:   p.LastModified,
			Info:           info,
			Stats:          p.Stats(),
			SectionsCount:  len(p.Sections),
		})
	}
	return out, created, nil
}

func detail(p *pages.Page, includeVersions bool) *Detail {
	secs := pages.CloneSections(p.Sections)
	pages.SortSections(secs)
	d := &Detail{
		PageID:          p.PageID,
		Title:           p.Title,
		MetaDescription: p.MetaDescription,
		Sections:        secs,
		Status:          p.Status,
		CurrentVersion:  p.CurrentVersion,
		LastModified:    p.LastModified,
		Draft:           p.Draft,
		Stats:           p.Stats(),
	}
	if includeVersions {
		d.Versions = p.VersionsNewestFirst()
	}
	return d
}

func (s *pageService) GetAdmin(ctx context.Context, pageID string, includeVersions bool, by string) (*Detail, error) {
	p, err := s.load(ctx, pageID, by)
	if err != nil {
		return nil, err
	}
	return detail(p, includeVersions), nil
}

// cleanSections validates the editor payload and fills generated ids, default
// order and default settings.
func cleanSections(in []SectionInput) ([]pages.Section, []string) {
	var problems []string
	seen := make(map[string]bool, len(in))
	out := make([]pages.Section, 0, len(in))
	for i, si := range in {
		sec := si.Section
		switch {
		case sec.Type == "":
			problems = append(problems, fmt.Sprintf("Section %d: type manquant", i))
		case !sec.Type.Valid():
			problems = append(problems, fmt.Sprintf("Section %d: type %q non supporté", i, sec.Type))
		}
		if sec.ID == "" {
			sec.ID = "section_" + uuid.NewString()
		}
		if seen[sec.ID] {
			problems = append(problems, fmt.Sprintf("Section %d: id %q dupliqué", i, sec.ID))
		}
		seen[sec.ID] = true
		if si.Order != nil {
			sec.Order = *si.Order
		} else {
			sec.Order = i
		}
		if sec.Settings == nil {
			visible := true
			sec.Settings = &pages.Settings{Visible: &visible}
		}
		out = append(out, sec)
	}
	return out, problems
}

// record appends a version for the live content and persists the page.
func (s *pageService) record(ctx context.Context, p *pages.Page, by, comment string) error {
	now := s.now()
	p.LastModified = now
	p.ModifiedBy = by
	p.AppendVersion(by, comment, now)
	if err := s.repo.Save(ctx, p); err != nil {
		return err
	}
	metrics.PageVersions.WithLabelValues(p.PageID).Inc()
	return nil
}

func (s *pageService) Update(ctx context.Context, pageID string, patch Patch, comment, by string) (*Detail, error) {
	var problems []string
	var sections []pages.Section
	if patch.Sections != nil {
		sections, problems = cleanSections(patch.Sections)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		problems = append(problems, fmt.Sprintf("Statut %q invalide", *patch.Status))
	}
	if len(problems) > 0 {
		return nil, &InvalidDataError{Details: problems}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load(ctx, pageID, by)
	if err != nil {
		return nil, err
	}

	changed := false
	if patch.Title != nil && *patch.Title != "" && *patch.Title != p.Title {
		p.Title = *patch.Title
		changed = true
	}
	if patch.MetaDescription != nil && *patch.MetaDescription != p.MetaDescription {
		p.MetaDescription = *patch.MetaDescription
		changed = true
	}
	if patch.Sections != nil && !pages.SameContent(sections, p.Sections) {
		p.Sections = sections
		changed = true
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}

	if changed {
		if comment == "" {
			comment = "Modification par " + by
		}
		err = s.record(ctx, p, by, comment)
	} else {
		p.LastModified = s.now()
		p.ModifiedBy = by
		err = s.repo.Save(ctx, p)
	}
	if err != nil {
		return nil, err
	}
	logger.Infof("page %s updated by %s (version %d)", pageID, by, p.CurrentVersion)
	return detail(p, false), nil
}

func (s *pageService) ListVersions(ctx context.Context, pageID string, pp pagination.Params) ([]VersionSummary, int, pagination.Meta, error) {
	p, err := s.existing(ctx, pageID)
	if err != nil {
		return nil, 0, pagination.Meta{}, err
	}
	all := p.VersionsNewestFirst()
	start, end := pp.Bounds(len(all))
	out := make([]VersionSummary, 0, end-start)
	for _, v := range all[start:end] {
		comment := v.Comment
		if comment == "" {
			comment = "Version automatique"
		}
		out = append(out, VersionSummary{
			VersionNumber: v.VersionNumber,
			CreatedAt:     v.CreatedAt,
			CreatedBy:     v.CreatedBy,
			Comment:       comment,
			SectionsCount: len(v.Sections),
		})
	}
	return out, p.CurrentVersion, pp.Meta(int64(len(all))), nil
}

func (s *pageService) GetVersion(ctx context.Context, pageID string, n int) (*pages.Version, error) {
	p, err := s.existing(ctx, pageID)
	if err != nil {
		return nil, err
	}
	v := p.FindVersion(n)
	if v == nil {
		return nil, models.ErrNotFound
	}
	out := *v
	out.Sections = pages.CloneSections(v.Sections)
	pages.SortSections(out.Sections)
	return &out, nil
}

func (s *pageService) RestoreVersion(ctx context.Context, pageID string, n int, comment, by string) (*Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.existing(ctx, pageID)
	if err != nil {
		return nil, err
	}
	v := p.FindVersion(n)
	if v == nil {
		return nil, models.ErrNotFound
	}
	p.Title = v.Title
	p.MetaDescription = v.MetaDescription
	p.Sections = pages.CloneSections(v.Sections)
	if comment == "" {
		comment = fmt.Sprintf("Restauration de la version %d", n)
	}
	if err := s.record(ctx, p, by, comment); err != nil {
		return nil, err
	}
	logger.Infof("page %s: version %d restored by %s as version %d", pageID, n, by, p.CurrentVersion)
	return detail(p, false), nil
}

func (s *pageService) SaveDraft(ctx context.Context, pageID string, in DraftInput, by string) (*pages.Draft, error) {
	var sections []pages.Section
	if in.Sections != nil {
		var problems []string
		if sections, problems = cleanSections(in.Sections); len(problems) > 0 {
			return nil, &InvalidDataError{Details: problems}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load(ctx, pageID, by)
	if err != nil {
		return nil, err
	}
	p.Draft = &pages.Draft{
		Title:           strings.TrimSpace(in.Title),
		MetaDescription: in.MetaDescription,
		Sections:        sections,
		SavedAt:         s.now(),
		SavedBy:         by,
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p.Draft, nil
}

func (s *pageService) PublishDraft(ctx context.Context, pageID, comment, by string) (*Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.existing(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if p.Draft == nil {
		return nil, ErrNoDraft
	}
	d := p.Draft
	if d.Title != "" {
		p.Title = d.Title
	}
	if d.MetaDescription != "" {
		p.MetaDescription = d.MetaDescription
	}
	if d.Sections != nil {
		p.Sections = pages.CloneSections(d.Sections)
	}
	p.Draft = nil
	if comment == "" {
		comment = "Publication du brouillon par " + by
	}
	if err := s.record(ctx, p, by, comment); err != nil {
		return nil, err
	}
	logger.Infof("page %s: draft published by %s", pageID, by)
	return detail(p, false), nil
}

func (s *pageService) DiscardDraft(ctx context.Context, pageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.existing(ctx, pageID)
	if err != nil {
		return err
	}
	if p.Draft == nil {
		return ErrNoDraft
	}
	p.Draft = nil
	return s.repo.Save(ctx, p)
}

func (s *pageService) ReorderSections(ctx context.Context, pageID string, ids []string, by string) (*Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load(ctx, pageID, by)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(p.Sections) {
		return nil, ErrInvalidOrder
	}
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := pos[id]; dup {
			return nil, ErrInvalidOrder
		}
		pos[id] = i
	}
	for i := range p.Sections {
		n, ok := pos[p.Sections[i].ID]
		if !ok {
			return nil, ErrInvalidOrder
		}
		p.Sections[i].Order = n
	}
	pages.SortSections(p.Sections)
	if err := s.record(ctx, p, by, "Réorganisation des sections par "+by); err != nil {
		return nil, err
	}
	return detail(p, false), nil
}
