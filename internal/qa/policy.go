package qa

import (
	"context"
	"strings"
)

var OffTopicKeywords = []string{"weather", "movie", "news", "stock", "football", "cricket", "recipe"}

const RefusalMessage = "This chatbot provides information about Maratha Mandal Engineering College (MMEC) only. For other queries please use a general search."

// PolicySource refuses questions that are plainly outside the college domain. It
// never touches the network.
type PolicySource struct {
	Keywords []string
}

func NewPolicySource() *PolicySource {
	return &PolicySource{Keywords: OffTopicKeywords}
}

func (p *PolicySource) Name() string { return SourcePolicy }

func (p *PolicySource) Lookup(_ context.Context, q Query) (string, bool, error) {
	for _, k := range p.Keywords {
		if strings.Contains(q.Normalized, k) {
			return RefusalMessage, true, nil
		}
	}
	return "", false, nil
}
