package qa

import (
	"college_chatbot_backend/pkg/logger"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	InfoFile           = "info.md"
	ClassStrengthsFile = "class_strengths.json"
	SitePagesFile      = "site_pages.json"

	snippetLead = 120
	snippetLen  = 400
)

// CollegeDataSource searches the college info directory: info.md first, then every
// JSON file by name. A first pass looks for the whole query; a second pass accepts a
// document containing every content term of the query.
type CollegeDataSource struct {
	Dir   string
	Index *SiteIndex
}

func NewCollegeDataSource(dir string, index *SiteIndex) *CollegeDataSource {
	return &CollegeDataSource{Dir: dir, Index: index}
}

func (s *CollegeDataSource) Name() string { return SourceCollegeData }

func (s *CollegeDataSource) Lookup(_ context.Context, q Query) (string, bool, error) {
	if s.Index != nil {
		if hits := s.Index.Search(q.Raw, 3); len(hits) > 0 {
			return finish(FormatSiteHits(hits))
		}
	}

	if _, err := os.Stat(s.Dir); err != nil {
		return "", false, nil
	}

	docs := s.loadDocuments()
	match := func(text string) bool { return strings.Contains(text, q.Normalized) }
	if answer, ok := s.scan(docs, q, match, func(lower string) int { return strings.Index(lower, q.Normalized) }); ok {
		return finish(answer)
	}

	terms := contentTerms(q.Normalized)
	if len(terms) == 0 {
		return "", false, nil
	}
	matchAll := func(text string) bool {
		for _, t := range terms {
			if !strings.Contains(text, t) {
				return false
			}
		}
		return true
	}
	answer, ok := s.scan(docs, q, matchAll, func(lower string) int { return strings.Index(lower, terms[0]) })
	if !ok {
		return "", false, nil
	}
	return finish(answer)
}

func finish(answer string) (string, bool, error) {
	answer = Sanitize(answer)
	return answer, answer != "", nil
}

type jsonDocument struct {
	name       string
	raw        []byte
	serialized string
}

type documents struct {
	info  string // lowercased info.md, empty when absent
	jsons []jsonDocument
}

func (s *CollegeDataSource) loadDocuments() documents {
	var docs documents
	if data, err := os.ReadFile(filepath.Join(s.Dir, InfoFile)); err == nil {
		docs.info = strings.ToLower(string(data))
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return docs
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") && e.Name() != SitePagesFile {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			continue
		}
		serialized, err := serializedLower(raw)
		if err != nil {
			logger.Log.Debug("Skipping malformed data file", zap.String("file", name), zap.Error(err))
			continue
		}
		docs.jsons = append(docs.jsons, jsonDocument{name: name, raw: raw, serialized: serialized})
	}
	return docs
}

func (s *CollegeDataSource) scan(docs documents, q Query, match func(string) bool, anchor func(string) int) (string, bool) {
	if docs.info != "" && match(docs.info) {
		if snippet := infoSnippet(docs.info, anchor(docs.info)); snippet != "" {
			return snippet, true
		}
	}
	for _, doc := range docs.jsons {
		if !match(doc.serialized) {
			continue
		}
		if answer, ok := renderDataFile(doc.name, doc.raw, q); ok {
			return answer, true
		}
	}
	return "", false
}

// infoSnippet returns up to 400 characters of text starting 120 characters before
// byte offset idx.
func infoSnippet(text string, idx int) string {
	if idx < 0 {
		return ""
	}
	runeIdx := utf8.RuneCountInString(text[:idx])
	runes := []rune(text)
	start := runeIdx - snippetLead
	if start < 0 {
		start = 0
	}
	end := start + snippetLen
	if end > len(runes) {
		end = len(runes)
	}
	return strings.TrimSpace(string(runes[start:end]))
}

func genericFound(name string) string {
	return fmt.Sprintf("Found relevant data in %s. Use the college info panel for details.", name)
}

func renderDataFile(name string, raw []byte, q Query) (string, bool) {
	switch name {
	case ClassStrengthsFile:
		out, err := RenderClassStrengths(raw)
		if err != nil {
			return "", false
		}
		return out, true
	case OfflineFAQFile:
		entries, err := ParseOfflineFAQ(raw)
		if err == nil {
			if answer, ok := MatchFAQ(entries, q.Normalized); ok && answer != "" {
				return answer, true
			}
		}
		return genericFound(name), true
	default:
		return genericFound(name), true
	}
}

// RenderClassStrengths formats class_strengths.json as a per-department table,
// keeping the file's key order.
func RenderClassStrengths(raw []byte) (string, error) {
	members, err := decodeObject(raw)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Class Strengths at MMEC:\n\n")
	for _, m := range members {
		if m.Key == "faculty_count_other_depts" {
			continue
		}
		if isObject(m.Value) {
			inner, err := decodeObject(m.Value)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "%s:\n", m.Key)
			for _, sem := range inner {
				if sem.Key != "total" {
					fmt.Fprintf(&b, "  %s: %s\n", sem.Key, scalarText(sem.Value))
				}
			}
			if total, ok := lookupMember(inner, "total"); ok {
				fmt.Fprintf(&b, "  Total: %s\n", scalarText(total))
			}
		} else if strings.HasPrefix(m.Key, "CSE_") {
			fmt.Fprintf(&b, "%s: %s\n", strings.ReplaceAll(m.Key, "CSE_", "CSE "), scalarText(m.Value))
		}
	}
	return strings.TrimSpace(b.String()), nil
}
