package extractor

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"quiz-agent/internal/infrastructure/logger"
)

func newTestExtractor() *Extractor {
	return New(logger.NewNopAdapter())
}

func TestExtract_DecodesEmbeddedPayload(t *testing.T) {
	question := "What is 2+3? Submit to https://judge.example.com/submit"
	encoded := base64.StdEncoding.EncodeToString([]byte(question))
	markup := fmt.Sprintf(`<html><body><script>
		document.getElementById("result").innerHTML = atob('%s');
	</script><div id="result"></div></body></html>`, encoded)

	got := newTestExtractor().Extract(markup)
	if got != question {
		t.Errorf("Extract() = %q, want %q", got, question)
	}
}

func TestExtract_DoubleQuotedPayload(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("Count the rows in the file."))
	markup := fmt.Sprintf(`<script>x = atob("%s");</script>`, encoded)

	got := newTestExtractor().Extract(markup)
	if got != "Count the rows in the file." {
		t.Errorf("Extract() = %q", got)
	}
}

func TestExtract_MalformedPayloadFallsThrough(t *testing.T) {
	markup := `<html><body>
		<script>q = atob('%%%not-base64%%%');</script>
		<div id="result">What is the sum of the first 10 integers?</div>
	</body></html>`

	got := newTestExtractor().Extract(markup)
	if got != "What is the sum of the first 10 integers?" {
		t.Errorf("Extract() = %q", got)
	}
}

func TestExtract_BinaryPayloadFallsThrough(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0x01, 0x02, 0x80})
	markup := fmt.Sprintf(`<html><body>
		<script>q = atob('%s');</script>
		<div id="result">How many legs does a spider have?</div>
	</body></html>`, encoded)

	got := newTestExtractor().Extract(markup)
	if got != "How many legs does a spider have?" {
		t.Errorf("Extract() = %q, want container text", got)
	}
}

func TestExtract_ContainerPriority(t *testing.T) {
	markup := `<html><body>
		<div class="question">Question container text here</div>
		<div id="result">Result container wins over question</div>
	</body></html>`

	got := newTestExtractor().Extract(markup)
	if got != "Result container wins over question" {
		t.Errorf("Extract() = %q", got)
	}
}

func TestExtract_StripsNestedMarkup(t *testing.T) {
	markup := `<html><body><div id="result">
		<p>What  is</p><b>2 + 3</b><span>?</span>
	</div></body></html>`

	got := newTestExtractor().Extract(markup)
	if got != "What is 2 + 3 ?" {
		t.Errorf("Extract() = %q", got)
	}
}

func TestExtract_ShortContainerFallsBackToBody(t *testing.T) {
	markup := `<html><body><div id="result">hi</div>
		This page asks: what is the capital of France?</body></html>`

	got := newTestExtractor().Extract(markup)
	if !strings.Contains(got, "capital of France") {
		t.Errorf("Extract() = %q, want body text", got)
	}
}

func TestExtract_RawPrefixFallback(t *testing.T) {
	markup := "<" + strings.Repeat("x", 5000)

	got := newTestExtractor().Extract(markup)
	if len(got) != rawFallbackLen {
		t.Errorf("len = %d, want %d", len(got), rawFallbackLen)
	}
	if got != markup[:rawFallbackLen] {
		t.Error("fallback is not a prefix of the raw markup")
	}
}

func TestExtract_RawPrefixKeepsRunesIntact(t *testing.T) {
	// A three-byte rune straddles the cut point.
	markup := "<" + strings.Repeat("x", rawFallbackLen-2) + strings.Repeat("日", 1000)

	got := newTestExtractor().Extract(markup)
	if !utf8.ValidString(got) {
		t.Errorf("fallback is not valid UTF-8: %q", got[len(got)-4:])
	}
	if !strings.HasPrefix(markup, got) {
		t.Error("fallback is not a prefix of the raw markup")
	}
	if len(got) != rawFallbackLen-1 {
		t.Errorf("len = %d, want %d", len(got), rawFallbackLen-1)
	}
}

func TestExtract_NeverEmpty(t *testing.T) {
	for _, markup := range []string{"", "<html></html>", "<script>atob('!!!')</script>"} {
		if got := newTestExtractor().Extract(markup); got == "" {
			t.Errorf("Extract(%q) returned empty string", markup)
		}
	}
}
