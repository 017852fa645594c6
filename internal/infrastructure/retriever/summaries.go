package retriever

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/tidwall/gjson"
)

const (
	previewRows         = 5
	textPreviewLen      = 500
	maxImageDim         = 1024
	imageDescribePrompt = "Describe this image in detail. If it contains text, transcribe it. If it contains data or charts, describe the data."
)

func summarizeTabular(url string, content []byte) string {
	lower := strings.ToLower(url)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls") {
		// Workbooks are passed through unparsed; only the reasoning
		// service sees more than the size.
		return fmt.Sprintf("Excel workbook, %d bytes (contents not parsed)", len(content))
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil || len(records) == 0 {
		return fmt.Sprintf("CSV file, %d bytes (could not be parsed)", len(content))
	}

	header := records[0]
	rows := records[1:]

	var b strings.Builder
	fmt.Fprintf(&b, "CSV file with %d rows and %d columns\n", len(rows), len(header))
	fmt.Fprintf(&b, "Columns: %s\n", strings.Join(header, ", "))
	fmt.Fprintf(&b, "First %d rows:\n", min(previewRows, len(rows)))
	for i, row := range rows {
		if i >= previewRows {
			break
		}
		fmt.Fprintf(&b, "%s\n", strings.Join(row, ", "))
	}
	return b.String()
}

func summarizePDF(content []byte) string {
	pages, err := api.PageCount(bytes.NewReader(content), nil)
	if err != nil {
		return fmt.Sprintf("PDF document, %d bytes (could not be parsed)", len(content))
	}
	return fmt.Sprintf("PDF document with %d pages, %d bytes", pages, len(content))
}

// summarizeImage delegates description to the vision model. Large images
// are downscaled and re-encoded first to keep the request small.
func (c *Client) summarizeImage(ctx context.Context, content []byte) string {
	payload := content
	if img, err := imaging.Decode(bytes.NewReader(content)); err == nil {
		bounds := img.Bounds()
		if bounds.Dx() > maxImageDim || bounds.Dy() > maxImageDim {
			img = imaging.Fit(img, maxImageDim, maxImageDim, imaging.Lanczos)
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG); err == nil {
			payload = buf.Bytes()
		}
	} else {
		c.logger.Warn("image decode failed, sending original bytes", "error", err)
	}

	description, err := c.reasoning.DescribeImage(ctx, payload, imageDescribePrompt)
	if err != nil {
		c.logger.Error("image description failed", "error", err)
		return fmt.Sprintf("Image, %d bytes (description unavailable)", len(content))
	}
	return fmt.Sprintf("Image analyzed. Description: %s", description)
}

func summarizeJSON(content []byte) string {
	if !gjson.ValidBytes(content) {
		return fmt.Sprintf("JSON file, %d bytes (invalid JSON)", len(content))
	}

	parsed := gjson.ParseBytes(content)
	var b strings.Builder
	b.WriteString("JSON file\n")
	switch {
	case parsed.IsObject():
		var keys []string
		parsed.ForEach(func(key, _ gjson.Result) bool {
			keys = append(keys, key.String())
			return true
		})
		fmt.Fprintf(&b, "Type: object\nKeys: %s\n", strings.Join(keys, ", "))
	case parsed.IsArray():
		fmt.Fprintf(&b, "Type: list\nList with %d items\n", len(parsed.Array()))
	default:
		fmt.Fprintf(&b, "Type: %s\n", parsed.Type)
	}
	return b.String()
}

func summarizeText(content []byte) string {
	text := string(content)
	preview := text
	if len(preview) > textPreviewLen {
		preview = preview[:textPreviewLen]
		// Avoid splitting a multi-byte rune at the cut.
		for !utf8.ValidString(preview) && len(preview) > 0 {
			preview = preview[:len(preview)-1]
		}
	}
	return fmt.Sprintf("Text file with %d characters\n%s", utf8.RuneCountInString(text), preview)
}
