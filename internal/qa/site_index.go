package qa

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
)

// Page is one crawled website page as stored in site_pages.json.
type Page struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

type SiteHit struct {
	URL     string
	Snippet string
	Score   float64
}

const (
	siteSnippetLen = 800
	siteMinScore   = 0.05
)

// SiteIndex is a TF-IDF index over crawled pages, scored by cosine similarity.
// Term weights use smoothed idf: ln((1+n)/(1+df)) + 1.
type SiteIndex struct {
	pages   []Page
	idf     map[string]float64
	vectors []map[string]float64
}

func LoadSiteIndex(path string) (*SiteIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pages []Page
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return NewSiteIndex(pages), nil
}

func NewSiteIndex(pages []Page) *SiteIndex {
	idx := &SiteIndex{pages: pages, idf: make(map[string]float64)}

	counts := make([]map[string]float64, len(pages))
	df := make(map[string]int)
	for i, p := range pages {
		counts[i] = termCounts(p.Text)
		for t := range counts[i] {
			df[t]++
		}
	}

	n := float64(len(pages))
	for t, d := range df {
		idx.idf[t] = math.Log((1+n)/(1+float64(d))) + 1
	}

	idx.vectors = make([]map[string]float64, len(pages))
	for i, c := range counts {
		idx.vectors[i] = idx.weigh(c)
	}
	return idx
}

func termCounts(text string) map[string]float64 {
	counts := make(map[string]float64)
	for _, w := range tokenize(text) {
		if len(w) < 2 || stopwords[w] {
			continue
		}
		counts[w]++
	}
	return counts
}

// weigh turns raw counts into an L2-normalized tf-idf vector. Unknown terms are
// dropped.
func (s *SiteIndex) weigh(counts map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(counts))
	var norm float64
	for t, c := range counts {
		idf, ok := s.idf[t]
		if !ok {
			continue
		}
		w := c * idf
		vec[t] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for t := range vec {
		vec[t] /= norm
	}
	return vec
}

func (s *SiteIndex) Len() int {
	return len(s.pages)
}

// Search returns up to topK pages scoring above a small floor, best first.
func (s *SiteIndex) Search(query string, topK int) []SiteHit {
	q := s.weigh(termCounts(query))
	if len(q) == 0 {
		return nil
	}

	var hits []SiteHit
	for i, vec := range s.vectors {
		var score float64
		for t, w := range q {
			score += w * vec[t]
		}
		if score < siteMinScore {
			continue
		}
		snippet := []rune(s.pages[i].Text)
		if len(snippet) > siteSnippetLen {
			snippet = snippet[:siteSnippetLen]
		}
		hits = append(hits, SiteHit{URL: s.pages[i].URL, Snippet: strings.TrimSpace(string(snippet)), Score: score})
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

func FormatSiteHits(hits []SiteHit) string {
	parts := make([]string, 0, len(hits))
	for _, h := range hits {
		parts = append(parts, fmt.Sprintf("Source: %s\n%s\n", h.URL, h.Snippet))
	}
	return strings.Join(parts, "\n---\n")
}
