package html

import (
	"context"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aurelia-labs/nexus-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles HTML files.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"html", "htm", "xhtml"}
}

// Extract converts an HTML file to readable text. Chrome elements
// (navigation, headers, footers, scripts) are dropped and the main
// content region is preferred when one is marked up.
func (e *Extractor) Extract(_ context.Context, path string, content []byte) (*driven.Extracted, error) {
	raw := string(content)

	title := extractTitle(raw, path)
	text := stripHTML(raw)

	return &driven.Extracted{
		Text:     text,
		Title:    title,
		Metadata: map[string]string{"format": "html"},
	}, nil
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	navTag        = regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`)
	footerTag     = regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`)
	headerTag     = regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	mainRegion    = regexp.MustCompile(`(?is)<main[^>]*>(.*)</main>`)
	articleRegion = regexp.MustCompile(`(?is)<article[^>]*>(.*)</article>`)
	bodyRegion    = regexp.MustCompile(`(?is)<body[^>]*>(.*)</body>`)
	blockClose    = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	blockOpen     = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags        = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// extractTitle pulls the <title> tag or falls back to the filename.
func extractTitle(content, path string) string {
	if m := titleTag.FindStringSubmatch(content); len(m) > 1 {
		title := html.UnescapeString(strings.TrimSpace(m[1]))
		if title != "" {
			return title
		}
	}
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}

// stripHTML removes markup and extracts readable text content.
func stripHTML(content string) string {
	// Drop non-content elements before selecting a region so chrome
	// inside <body> does not leak through.
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")
	content = navTag.ReplaceAllString(content, "")
	content = footerTag.ReplaceAllString(content, "")
	content = headerTag.ReplaceAllString(content, "")

	// Prefer the marked-up main content region when present.
	for _, region := range []*regexp.Regexp{mainRegion, articleRegion, bodyRegion} {
		if m := region.FindStringSubmatch(content); len(m) > 1 {
			content = m[1]
			break
		}
	}

	content = blockOpen.ReplaceAllString(content, "\n")
	content = blockClose.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")

	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	lines := strings.Split(content, "\n")
	var result []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
