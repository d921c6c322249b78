package search

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxEnrichedContentLen = 2000

// contentSelectors cover the usual containers blogs and news sites use for
// the article body.
const contentSelectors = "article, .content, #content, main, .post, #main, .entry-content, .post-content, .blog-post, #primary, #main-content, .text, .text-content, #body-content, .post-article"

var whitespaceRe = regexp.MustCompile(`\s+`)

// Enrich replaces each item's search snippet with the text of the article
// page itself when it can be fetched, giving the generator fuller grounding
// than the snippet alone. Items whose pages cannot be fetched keep their
// snippet; enrichment never fails the search.
func (c *TavilyClient) Enrich(ctx context.Context, items []NewsItem) []NewsItem {
	for i := range items {
		if items[i].URL == "" {
			continue
		}
		if content := c.fetchPageContent(ctx, items[i].URL); content != "" {
			items[i].Content = content
		}
	}
	return items
}

func (c *TavilyClient) fetchPageContent(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", "postforge/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	var content string
	doc.Find(contentSelectors).Each(func(i int, s *goquery.Selection) {
		content += s.Text() + "\n"
	})
	if content == "" {
		content = doc.Find("body").Text()
	}

	return cleanContent(content)
}

// cleanContent normalizes whitespace and truncates at a sentence or word
// boundary past the midpoint so the generator sees coherent text.
func cleanContent(content string) string {
	content = whitespaceRe.ReplaceAllString(content, " ")
	content = strings.TrimSpace(content)

	if len(content) <= maxEnrichedContentLen {
		return content
	}

	content = content[:maxEnrichedContentLen]
	if idx := strings.LastIndex(content, ". "); idx > maxEnrichedContentLen/2 {
		content = content[:idx+1]
	} else if idx := strings.LastIndex(content, " "); idx > maxEnrichedContentLen/2 {
		content = content[:idx]
	}
	return content + "..."
}
