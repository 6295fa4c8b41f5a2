package pages

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"
)

//go:embed defaults.json
var defaultsJSON []byte

type defaultContent struct {
	Title           string    `json:"title"`
	MetaDescription string    `json:"metaDescription"`
	Sections        []Section `json:"sections"`
}

var defaults = mustLoadDefaults()

func mustLoadDefaults() map[string]defaultContent {
	var m map[string]defaultContent
	if err := json.Unmarshal(defaultsJSON, &m); err != nil {
		panic(fmt.Sprintf("pages: invalid embedded defaults: %v", err))
	}
	for _, id := range catalogOrder {
		if _, ok := m[id]; !ok {
			panic("pages: no default content for " + id)
		}
	}
	return m
}

// NewDefault builds a published page from the shipped content, with version 1
// holding the initial snapshot.
func NewDefault(pageID, by string, now time.Time) (*Page, error) {
	d, ok := defaults[pageID]
	if !ok {
		return nil, fmt.Errorf("no default content for page %q", pageID)
	}
	p := &Page{
		PageID:          pageID,
		Title:           d.Title,
		MetaDescription: d.MetaDescription,
		Sections:        CloneSections(d.Sections),
		CurrentVersion:  1,
		Status:          StatusPublished,
		LastModified:    now,
		ModifiedBy:      by,
		CreatedAt:       now,
	}
	p.Versions = []Version{p.Snapshot(1, by, "Version initiale créée automatiquement", now)}
	return p, nil
}
