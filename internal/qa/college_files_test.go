package qa

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const classStrengthsJSON = `{
  "CSE": {"sem3": 60, "sem5": 58, "total": 118},
  "faculty_count_other_depts": 12,
  "CSE_AIML": 30,
  "ECE": {"sem3": 45}
}`

func writeCollegeDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		InfoFile:           "# About\nMaratha Mandal Engineering College is located in Belagavi. The library has 20000 books.",
		"fees.json":        `{"fee_structure": {"B.E.": "1,20,000 per year"}}`,
		ClassStrengthsFile: classStrengthsJSON,
		"broken.json":      `{not json`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestRenderClassStrengths(t *testing.T) {
	out, err := RenderClassStrengths([]byte(classStrengthsJSON))
	require.NoError(t, err)
	want := "Class Strengths at MMEC:\n\n" +
		"CSE:\n  sem3: 60\n  sem5: 58\n  Total: 118\n" +
		"CSE AIML: 30\n" +
		"ECE:\n  sem3: 45"
	assert.Equal(t, want, out)
}

func TestCollegeDataInfoSnippet(t *testing.T) {
	src := NewCollegeDataSource(writeCollegeDir(t), nil)

	answer, ok, err := src.Lookup(context.Background(), NewQuery("library", "Student"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, answer, "the library has 20000 books.")
}

func TestCollegeDataFeeStructure(t *testing.T) {
	src := NewCollegeDataSource(writeCollegeDir(t), nil)

	answer, ok, err := src.Lookup(context.Background(), NewQuery("What is MMEC fee structure?", "Student"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEmpty(t, answer)
	assert.Contains(t, answer, "fees.json")
	assert.False(t, ContainsBoilerplate(answer))
}

func TestCollegeDataClassStrengths(t *testing.T) {
	src := NewCollegeDataSource(writeCollegeDir(t), nil)

	answer, ok, err := src.Lookup(context.Background(), NewQuery("sem5", "Student"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, answer, "Class Strengths at MMEC:")
	assert.Contains(t, answer, "sem5: 58")
}

func TestCollegeDataMisses(t *testing.T) {
	src := NewCollegeDataSource(writeCollegeDir(t), nil)
	_, ok, err := src.Lookup(context.Background(), NewQuery("what is the weather today", "Student"))
	require.NoError(t, err)
	assert.False(t, ok)

	missing := NewCollegeDataSource(filepath.Join(t.TempDir(), "nope"), nil)
	_, ok, err = missing.Lookup(context.Background(), NewQuery("library", "Student"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCollegeDataOfflineFAQFile(t *testing.T) {
	dir := t.TempDir()
	body := `{"faqs": [{"keyword": "canteen", "answer": "Canteen is open 8am to 6pm."}], "note": "timings and transport"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, OfflineFAQFile), []byte(body), 0o644))
	src := NewCollegeDataSource(dir, nil)

	// present in the serialized file but no keyword matches
	answer, ok, err := src.Lookup(context.Background(), NewQuery("transport", "Student"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "offline_faq.json. Use the college info panel for details.", answer)
}

func TestCollegeDataUsesSiteIndex(t *testing.T) {
	index := NewSiteIndex([]Page{
		{URL: "https://example.edu/placements", Text: "Placement drives with top recruiters every year."},
		{URL: "https://example.edu/library", Text: "Central library with digital resources."},
	})
	src := NewCollegeDataSource(t.TempDir(), index)

	answer, ok, err := src.Lookup(context.Background(), NewQuery("placement drives", "Student"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, answer, "Source: https://example.edu/placements")
}

func TestSiteIndexSearch(t *testing.T) {
	index := NewSiteIndex([]Page{
		{URL: "a", Text: "hostel rooms and mess facilities"},
		{URL: "b", Text: "hostel hostel hostel warden contact"},
		{URL: "c", Text: "sports ground and gym"},
	})
	assert.Equal(t, 3, index.Len())

	hits := index.Search("hostel warden", 2)
	require.Len(t, hits, 2)
	assert.Equal(t, "b", hits[0].URL)
	assert.Greater(t, hits[0].Score, hits[1].Score)

	assert.Empty(t, index.Search("the of and", 3))
	assert.Empty(t, index.Search("quantum", 3))
}
