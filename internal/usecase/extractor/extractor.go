package extractor

import (
	"encoding/base64"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"quiz-agent/internal/application/port/output"
)

const (
	minQuestionLen = 10
	rawFallbackLen = 2000
)

// atobPattern matches the known obfuscation marker: a decode call wrapping
// a base64 literal.
var atobPattern = regexp.MustCompile(`atob\(['"]([^'"]+)['"]\)`)

// containerSelectors are scanned in priority order when no encoded payload
// is present.
var containerSelectors = []string{"#result", ".question", "body"}

// Extractor converts rendered page markup into a plain-text question
// string. It never fails: every tier degrades silently to the next one.
type Extractor struct {
	logger output.LoggerPort
}

func New(logger output.LoggerPort) *Extractor {
	return &Extractor{logger: logger}
}

// Extract returns the question text for the given markup. The result is
// never empty as long as the markup is not.
func (e *Extractor) Extract(markup string) string {
	if m := atobPattern.FindStringSubmatch(markup); m != nil {
		decoded, err := base64.StdEncoding.DecodeString(m[1])
		switch {
		case err != nil:
			e.logger.Warn("failed to decode embedded payload", "error", err)
		case !utf8.Valid(decoded):
			// Binary payloads are not questions; treat them like a
			// decode failure.
			e.logger.Warn("embedded payload is not valid UTF-8")
		default:
			return string(decoded)
		}
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup)); err == nil {
		for _, sel := range containerSelectors {
			node := doc.Find(sel).First()
			if node.Length() == 0 {
				continue
			}
			inner, err := node.Html()
			if err != nil {
				continue
			}
			text := collapseWhitespace(stripTags(inner))
			if len(text) > minQuestionLen {
				return text
			}
		}
	} else {
		e.logger.Warn("markup parse failed", "error", err)
	}

	if len(markup) > rawFallbackLen {
		prefix := markup[:rawFallbackLen]
		// Avoid splitting a multi-byte rune at the cut.
		for !utf8.ValidString(prefix) && len(prefix) > 0 {
			prefix = prefix[:len(prefix)-1]
		}
		return prefix
	}
	if markup == "" {
		return "(empty page)"
	}
	return markup
}

// stripTags replaces markup with spaces, keeping only text nodes. Script
// and style bodies are dropped entirely.
func stripTags(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isOpaqueTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isOpaqueTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.WriteString(string(tokenizer.Text()))
				b.WriteByte(' ')
			}
		}
	}
}

func isOpaqueTag(name string) bool {
	return name == "script" || name == "style" || name == "noscript"
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
