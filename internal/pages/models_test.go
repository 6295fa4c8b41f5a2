package pages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_CoverCatalog(t *testing.T) {
	now := time.Now()
	for _, id := range IDs() {
		p, err := NewDefault(id, "", now)
		require.NoError(t, err, id)
		require.NotEmpty(t, p.Title, id)
		require.NotEmpty(t, p.Sections, id)
		require.Equal(t, 1, p.CurrentVersion)
		require.Len(t, p.Versions, 1)
		for _, s := range p.Sections {
			assert.True(t, s.Type.Valid(), "%s: section %s has type %q", id, s.ID, s.Type)
			assert.NotEmpty(t, s.ID)
		}
	}
	_, err := NewDefault("blog", "", now)
	require.Error(t, err)
}

func TestAppendVersion_TrimsHistory(t *testing.T) {
	p, err := NewDefault("home", "", time.Now())
	require.NoError(t, err)
	for i := 0; i < 25; i++ {
		p.Title = "Accueil " + string(rune('A'+i))
		p.AppendVersion("admin@example.fr", "edit", time.Now())
	}
	require.Equal(t, 26, p.CurrentVersion)
	require.Len(t, p.Versions, MaxVersions)
	st := p.Stats()
	assert.Equal(t, 7, st.OldestVersion)
	assert.Equal(t, 26, st.NewestVersion)
	assert.Nil(t, p.FindVersion(6))
	assert.Equal(t, "Accueil Y", p.FindVersion(26).Title)
	assert.Equal(t, 26, p.VersionsNewestFirst()[0].VersionNumber)
}

func TestSnapshot_DoesNotAlias(t *testing.T) {
	p, err := NewDefault("pricing", "", time.Now())
	require.NoError(t, err)
	v := p.Snapshot(2, "", "", time.Now())
	p.Sections[0].Title = "changé"
	if p.Sections[0].Image != nil {
		p.Sections[0].Image.URL = "/autre.jpg"
		assert.NotEqual(t, "/autre.jpg", v.Sections[0].Image.URL)
	}
	assert.NotEqual(t, "changé", v.Sections[0].Title)
}

func TestVisibleSections(t *testing.T) {
	hidden := false
	in := []Section{
		{ID: "b", Order: 2},
		{ID: "hidden", Order: 0, Settings: &Settings{Visible: &hidden}},
		{ID: "a", Order: 1, Settings: &Settings{}},
	}
	out := VisibleSections(in)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
}

func TestSameContent_NilEqualsEmpty(t *testing.T) {
	a := []Section{{ID: "x", Type: "text", Buttons: nil}}
	b := []Section{{ID: "x", Type: "text", Buttons: []Button{}}}
	assert.True(t, SameContent(a, b))
	b[0].Content = "nouveau"
	assert.False(t, SameContent(a, b))
}

func TestCatalog(t *testing.T) {
	assert.True(t, Valid("ethics"))
	assert.False(t, Valid("blog"))
	info, ok := Lookup("about")
	require.True(t, ok)
	assert.Equal(t, "/qui-suis-je", info.URL)
	assert.Len(t, IDs(), 7)
}
