package service

import (
	"college_chatbot_backend/internal/config"
	"college_chatbot_backend/internal/qa"
	"college_chatbot_backend/pkg/logger"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	userAgent        = "Mozilla/5.0 (compatible; MMECChatbot/1.0)"
	maxPageBytes     = 2 << 20
	crawlPageTimeout = 15 * time.Second
)

// pageRoute maps a query keyword to a site path. Order matters.
type pageRoute struct {
	Keyword string
	Path    string
}

var pageRoutes = []pageRoute{
	{"admission", "/admission"},
	{"fee", "/fee-structure"},
	{"course", "/courses"},
	{"facility", "/facilities"},
	{"placement", "/placements"},
	{"about", "/about"},
	{"contact", "/contact"},
}

type ScraperService struct {
	BaseURL  string
	MaxPages int
	MaxChars int
	Enabled  bool
	client   *http.Client
}

func NewScraperService(cfg config.ScrapeConfig) *ScraperService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://www.mmec.edu.in"
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 3
	}
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = 2000
	}
	return &ScraperService{
		BaseURL:  base,
		MaxPages: maxPages,
		MaxChars: maxChars,
		Enabled:  cfg.Enabled,
		client:   &http.Client{Timeout: timeout},
	}
}

// PagesFor picks the site pages relevant to a normalized query, falling back to
// the home page when no keyword matches.
func (s *ScraperService) PagesFor(normalized string) []string {
	var pages []string
	for _, r := range pageRoutes {
		if strings.Contains(normalized, r.Keyword) {
			pages = append(pages, s.BaseURL+r.Path)
		}
		if len(pages) == s.MaxPages {
			break
		}
	}
	if len(pages) == 0 {
		pages = append(pages, s.BaseURL)
	}
	return pages
}

// Scrape fetches the pages for a query and formats them as AI context. Fetch
// failures are logged and skipped.
func (s *ScraperService) Scrape(ctx context.Context, normalized string) string {
	if !s.Enabled {
		return ""
	}

	var b strings.Builder
	for _, page := range s.PagesFor(normalized) {
		text, err := s.FetchText(ctx, page)
		if err != nil {
			logger.Log.Debug("Scrape failed", zap.String("url", page), zap.Error(err))
			continue
		}
		if text == "" {
			continue
		}
		if runes := []rune(text); len(runes) > s.MaxChars {
			text = string(runes[:s.MaxChars])
		}
		fmt.Fprintf(&b, "From %s:\n%s\n\n", page, text)
	}
	return strings.TrimSpace(b.String())
}

// FetchText downloads a page and returns its visible text.
func (s *ScraperService) FetchText(ctx context.Context, pageURL string) (string, error) {
	doc, err := fetchHTML(ctx, s.client, pageURL)
	if err != nil {
		return "", err
	}
	return ExtractText(doc), nil
}

func fetchHTML(ctx context.Context, client *http.Client, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
	}

	return html.Parse(io.LimitReader(resp.Body, maxPageBytes))
}

// ExtractText returns the whitespace-collapsed visible text of a document.
func ExtractText(doc *html.Node) string {
	var sb strings.Builder
	walkText(doc, &sb)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func walkText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "iframe", "svg":
			return
		}
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, sb)
	}
}

func collectLinks(n *html.Node, base *url.URL, out *[]string) {
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key != "href" {
				continue
			}
			ref, err := url.Parse(strings.TrimSpace(attr.Val))
			if err != nil {
				continue
			}
			abs := base.ResolveReference(ref)
			abs.RawQuery = ""
			abs.Fragment = ""
			abs.Path = strings.TrimRight(abs.Path, "/")
			*out = append(*out, abs.String())
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectLinks(c, base, out)
	}
}

// Crawl walks the site breadth first from the base URL, staying under it, and
// returns the text of every page it could read. It stops once maxPages URLs
// have been visited.
func (s *ScraperService) Crawl(ctx context.Context, maxPages int) ([]qa.Page, error) {
	if maxPages <= 0 {
		maxPages = 40
	}
	if _, err := url.Parse(s.BaseURL); err != nil {
		return nil, err
	}

	crawler := &http.Client{Timeout: crawlPageTimeout}

	queue := []string{s.BaseURL}
	visited := make(map[string]bool)
	var pages []qa.Page

	for len(queue) > 0 && len(visited) < maxPages {
		if err := ctx.Err(); err != nil {
			return pages, err
		}
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		doc, err := fetchHTML(ctx, crawler, current)
		if err != nil {
			logger.Log.Warn("Crawl fetch failed", zap.String("url", current), zap.Error(err))
			continue
		}
		if text := ExtractText(doc); text != "" {
			pages = append(pages, qa.Page{URL: current, Text: text})
		}

		pageURL, err := url.Parse(current)
		if err != nil {
			continue
		}
		var links []string
		collectLinks(doc, pageURL, &links)
		for _, link := range links {
			if strings.HasPrefix(link, s.BaseURL) && !visited[link] {
				queue = append(queue, link)
			}
		}
	}

	logger.Log.Info("Crawl finished", zap.Int("visited", len(visited)), zap.Int("pages", len(pages)))
	return pages, nil
}
