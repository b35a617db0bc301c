package qa

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const OfflineFAQFile = "offline_faq.json"

// FaqEntry is one offline FAQ after normalization. Keywords are lowercase.
type FaqEntry struct {
	Keywords []string `json:"keywords"`
	Answer   string   `json:"answer"`
}

// ParseOfflineFAQ accepts both file shapes:
//
//	{"faqs": [{"keyword": "...", "keywords": [...], "answer": "..."}]}
//	{"<category>": {"questions": [...], "answer": "..."}}
//
// In the legacy shape the category name is also a keyword. Entry order follows the
// file, which is match priority.
func ParseOfflineFAQ(data []byte) ([]FaqEntry, error) {
	members, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	if raw, ok := lookupMember(members, "faqs"); ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			out := make([]FaqEntry, 0, len(items))
			for _, item := range items {
				fields, ok := objectFields(item)
				if !ok {
					continue
				}
				kws := lowerList(fields["keywords"])
				if kw := scalarText(fields["keyword"]); kw != "" {
					kws = append(kws, strings.ToLower(kw))
				}
				out = append(out, FaqEntry{Keywords: kws, Answer: scalarText(fields["answer"])})
			}
			return out, nil
		}
	}

	var out []FaqEntry
	for _, m := range members {
		fields, ok := objectFields(m.Value)
		if !ok {
			continue
		}
		kws := append(lowerList(fields["questions"]), strings.ToLower(m.Key))
		out = append(out, FaqEntry{Keywords: kws, Answer: scalarText(fields["answer"])})
	}
	return out, nil
}

func objectFields(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if !isObject(raw) {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// lowerList lowercases every element of a JSON array. Anything that is not an array
// yields nothing.
func lowerList(raw json.RawMessage) []string {
	var elems []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &elems) != nil {
		return nil
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		out = append(out, strings.ToLower(scalarText(e)))
	}
	return out
}

// LoadOfflineFAQ reads the offline FAQ file. A missing or malformed file yields no
// entries.
func LoadOfflineFAQ(path string) []FaqEntry {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	entries, err := ParseOfflineFAQ(data)
	if err != nil {
		return nil
	}
	return entries
}

// MatchFAQ returns the answer of the first entry with a keyword that contains the
// query or is contained in it. The rule is deliberately loose: "fee" matches
// "coffee".
func MatchFAQ(entries []FaqEntry, normalized string) (string, bool) {
	for _, e := range entries {
		for _, kw := range e.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(normalized, kw) || strings.Contains(kw, normalized) {
				return e.Answer, true
			}
		}
	}
	return "", false
}

type OfflineFAQSource struct {
	Path string
}

func NewOfflineFAQSource(dir string) *OfflineFAQSource {
	return &OfflineFAQSource{Path: filepath.Join(dir, OfflineFAQFile)}
}

func (s *OfflineFAQSource) Name() string { return SourceOffline }

func (s *OfflineFAQSource) Lookup(_ context.Context, q Query) (string, bool, error) {
	answer, ok := MatchFAQ(LoadOfflineFAQ(s.Path), q.Normalized)
	if !ok {
		return "", false, nil
	}
	answer = Sanitize(answer)
	return answer, answer != "", nil
}
