package pages

import (
	"encoding/json"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxVersions bounds the history kept on a page.
const MaxVersions = 20

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

type SectionType string

var sectionTypes = map[SectionType]struct{}{
	"hero": {}, "text": {}, "image": {}, "card-grid": {}, "cta": {}, "list": {},
	"contact-info": {}, "testimonial-form": {}, "pricing-table": {}, "image-text": {},
	"testimonial-list": {}, "appointment-widget": {}, "contact-form-map": {}, "list-sections": {},
}

func (t SectionType) Valid() bool {
	_, ok := sectionTypes[t]
	return ok
}

type Image struct {
	URL string `bson:"url" json:"url"`
	Alt string `bson:"alt,omitempty" json:"alt,omitempty"`
}

type Button struct {
	Text  string `bson:"text" json:"text"`
	URL   string `bson:"url" json:"url"`
	Style string `bson:"style,omitempty" json:"style,omitempty"`
}

// Item is a card, pricing row or list entry.
type Item struct {
	Title       string `bson:"title,omitempty" json:"title,omitempty"`
	Content     string `bson:"content,omitempty" json:"content,omitempty"`
	Image       *Image `bson:"image,omitempty" json:"image,omitempty"`
	Price       string `bson:"price,omitempty" json:"price,omitempty"`
	Duration    string `bson:"duration,omitempty" json:"duration,omitempty"`
	Highlighted bool   `bson:"highlighted,omitempty" json:"highlighted,omitempty"`
}

// ListGroup is a titled bullet list inside a list-sections block.
type ListGroup struct {
	Title string   `bson:"title" json:"title"`
	Items []string `bson:"items" json:"items"`
}

type StaticTestimonial struct {
	Author  string `bson:"author" json:"author"`
	Message string `bson:"message" json:"message"`
	Date    string `bson:"date,omitempty" json:"date,omitempty"`
}

type Settings struct {
	BackgroundColor string `bson:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	TextColor       string `bson:"textColor,omitempty" json:"textColor,omitempty"`
	BackgroundImage string `bson:"backgroundImage,omitempty" json:"backgroundImage,omitempty"`
	Alignment       string `bson:"alignment,omitempty" json:"alignment,omitempty"`
	Padding         string `bson:"padding,omitempty" json:"padding,omitempty"`
	Margin          string `bson:"margin,omitempty" json:"margin,omitempty"`
	FullWidth       bool   `bson:"fullWidth,omitempty" json:"fullWidth,omitempty"`
	Visible         *bool  `bson:"visible,omitempty" json:"visible,omitempty"`
	ImagePosition   string `bson:"imagePosition,omitempty" json:"imagePosition,omitempty"`
}

type Section struct {
	ID                 string              `bson:"id" json:"id"`
	Type               SectionType         `bson:"type" json:"type"`
	Title              string              `bson:"title,omitempty" json:"title,omitempty"`
	Subtitle           string              `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Content            string              `bson:"content,omitempty" json:"content,omitempty"`
	Image              *Image              `bson:"image,omitempty" json:"image,omitempty"`
	Buttons            []Button            `bson:"buttons,omitempty" json:"buttons,omitempty"`
	Items              []Item              `bson:"items,omitempty" json:"items,omitempty"`
	Sections           []ListGroup         `bson:"sections,omitempty" json:"sections,omitempty"`
	StaticTestimonials []StaticTestimonial `bson:"staticTestimonials,omitempty" json:"staticTestimonials,omitempty"`
	FetchFromAPI       *bool               `bson:"fetchFromApi,omitempty" json:"fetchFromApi,omitempty"`
	Settings           *Settings           `bson:"settings,omitempty" json:"settings,omitempty"`
	Order              int                 `bson:"order" json:"order"`
}

// Visible is true unless settings.visible is explicitly false.
func (s Section) Visible() bool {
	return s.Settings == nil || s.Settings.Visible == nil || *s.Settings.Visible
}

type Version struct {
	VersionNumber   int       `bson:"versionNumber" json:"versionNumber"`
	Title           string    `bson:"title" json:"title"`
	MetaDescription string    `bson:"metaDescription" json:"metaDescription"`
	Sections        []Section `bson:"sections" json:"sections"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	CreatedBy       string    `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	Comment         string    `bson:"comment,omitempty" json:"comment,omitempty"`
}

type Draft struct {
	Title           string    `bson:"title,omitempty" json:"title,omitempty"`
	MetaDescription string    `bson:"metaDescription,omitempty" json:"metaDescription,omitempty"`
	Sections        []Section `bson:"sections,omitempty" json:"sections,omitempty"`
	SavedAt         time.Time `bson:"savedAt" json:"savedAt"`
	SavedBy         string    `bson:"savedBy,omitempty" json:"savedBy,omitempty"`
}

// Page is the editable content of one site page, stored one document per pageId.
type Page struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PageID          string             `bson:"pageId" json:"pageId"`
	Title           string             `bson:"title" json:"title"`
	MetaDescription string             `bson:"metaDescription" json:"metaDescription"`
	Sections        []Section          `bson:"sections" json:"sections"`
	CurrentVersion  int                `bson:"currentVersion" json:"currentVersion"`
	Versions        []Version          `bson:"versions" json:"versions,omitempty"`
	Draft           *Draft             `bson:"draft,omitempty" json:"draft,omitempty"`
	Status          Status             `bson:"status" json:"status"`
	LastModified    time.Time          `bson:"lastModified" json:"lastModified"`
	ModifiedBy      string             `bson:"modifiedBy,omitempty" json:"modifiedBy,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

type Stats struct {
	CurrentVersion int        `json:"currentVersion"`
	TotalVersions  int        `json:"totalVersions"`
	OldestVersion  int        `json:"oldestVersion"`
	NewestVersion  int        `json:"newestVersion"`
	LastModified   time.Time  `json:"lastModified"`
	HasDraft       bool       `json:"hasDraft"`
	DraftSavedAt   *time.Time `json:"draftSavedAt,omitempty"`
}

func (p *Page) Stats() Stats {
	st := Stats{
		CurrentVersion: p.CurrentVersion,
		TotalVersions:  len(p.Versions),
		LastModified:   p.LastModified,
		HasDraft:       p.Draft != nil,
	}
	for i, v := range p.Versions {
		if i == 0 || v.VersionNumber < st.OldestVersion {
			st.OldestVersion = v.VersionNumber
		}
		if v.VersionNumber > st.NewestVersion {
			st.NewestVersion = v.VersionNumber
		}
	}
	if p.Draft != nil {
		saved := p.Draft.SavedAt
		st.DraftSavedAt = &saved
	}
	return st
}

// Snapshot records the live content as version n.
func (p *Page) Snapshot(n int, by, comment string, at time.Time) Version {
	return Version{
		VersionNumber:   n,
		Title:           p.Title,
		MetaDescription: p.MetaDescription,
		Sections:        CloneSections(p.Sections),
		CreatedAt:       at,
		CreatedBy:       by,
		Comment:         comment,
	}
}

// AppendVersion bumps currentVersion, records the live content and keeps the
// MaxVersions newest snapshots.
func (p *Page) AppendVersion(by, comment string, at time.Time) Version {
	p.CurrentVersion++
	v := p.Snapshot(p.CurrentVersion, by, comment, at)
	p.Versions = append(p.Versions, v)
	if extra := len(p.Versions) - MaxVersions; extra > 0 {
		p.Versions = append([]Version(nil), p.Versions[extra:]...)
	}
	return v
}

// FindVersion returns the snapshot numbered n, or nil.
func (p *Page) FindVersion(n int) *Version {
	for i := range p.Versions {
		if p.Versions[i].VersionNumber == n {
			return &p.Versions[i]
		}
	}
	return nil
}

// VersionsNewestFirst returns a copy of the history ordered by descending number.
func (p *Page) VersionsNewestFirst() []Version {
	out := append([]Version(nil), p.Versions...)
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out
}

// SortSections orders sections by their order field, keeping ties stable.
func SortSections(s []Section) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Order < s[j].Order })
}

// VisibleSections returns the visible sections sorted by order.
func VisibleSections(s []Section) []Section {
	out := make([]Section, 0, len(s))
	for _, sec := range s {
		if sec.Visible() {
			out = append(out, sec)
		}
	}
	SortSections(out)
	return out
}

// SameContent compares two section lists by their JSON form, so nil and empty
// collections are equal.
func SameContent(a, b []Section) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(ja) == string(jb)
}

func CloneSections(in []Section) []Section {
	if in == nil {
		return nil
	}
	out := make([]Section, len(in))
	for i, s := range in {
		out[i] = s.clone()
	}
	return out
}

func (s Section) clone() Section {
	c := s
	c.Image = cloneImage(s.Image)
	c.Buttons = append([]Button(nil), s.Buttons...)
	if s.Items != nil {
		c.Items = make([]Item, len(s.Items))
		for i, it := range s.Items {
			it.Image = cloneImage(it.Image)
			c.Items[i] = it
		}
	}
	if s.Sections != nil {
		c.Sections = make([]ListGroup, len(s.Sections))
		for i, g := range s.Sections {
			c.Sections[i] = ListGroup{Title: g.Title, Items: append([]string(nil), g.Items...)}
		}
	}
	c.StaticTestimonials = append([]StaticTestimonial(nil), s.StaticTestimonials...)
	if s.FetchFromAPI != nil {
		v := *s.FetchFromAPI
		c.FetchFromAPI = &v
	}
	if s.Settings != nil {
		st := *s.Settings
		if st.Visible != nil {
			v := *st.Visible
			st.Visible = &v
		}
		c.Settings = &st
	}
	return c
}

func cloneImage(i *Image) *Image {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// Clone deep-copies the page so stored state never aliases caller state.
func (p *Page) Clone() *Page {
	c := *p
	c.Sections = CloneSections(p.Sections)
	if p.Versions != nil {
		c.Versions = make([]Version, len(p.Versions))
		for i, v := range p.Versions {
			v.Sections = CloneSections(v.Sections)
			c.Versions[i] = v
		}
	}
	if p.Draft != nil {
		d := *p.Draft
		d.Sections = CloneSections(p.Draft.Sections)
		c.Draft = &d
	}
	return &c
}
