package synthesizer

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"quiz-agent/internal/domain/entity"
)

var numberPattern = regexp.MustCompile(`-?\d+\.?\d*`)

// ErrNoNumber is returned when the number rule finds no numeric token in
// the response.
var ErrNoNumber = errors.New("no numeric answer in response")

// ExtractAnswer applies the format-keyed extraction rule to a reasoning
// response. Calling it twice on the same input yields the same value.
func ExtractAnswer(response string, format entity.AnswerFormat) (entity.Answer, error) {
	switch format {
	case entity.FormatNumber:
		tokens := numberPattern.FindAllString(response, -1)
		if len(tokens) == 0 {
			return entity.Answer{}, ErrNoNumber
		}
		// The last stated number is assumed to be the final result.
		last := tokens[len(tokens)-1]
		if strings.Contains(last, ".") {
			f, err := strconv.ParseFloat(last, 64)
			if err != nil {
				return entity.Answer{}, ErrNoNumber
			}
			return entity.Answer{Format: format, Value: f}, nil
		}
		n, err := strconv.Atoi(last)
		if err != nil {
			return entity.Answer{}, ErrNoNumber
		}
		return entity.Answer{Format: format, Value: n}, nil

	case entity.FormatBoolean:
		// Only "true"/"yes" are detected; absence yields false. Negated
		// statements like "not true" therefore read as true. Kept as-is
		// pending product clarification.
		lower := strings.ToLower(response)
		value := strings.Contains(lower, "true") || strings.Contains(lower, "yes")
		return entity.Answer{Format: format, Value: value}, nil

	case entity.FormatJSON:
		if region, ok := firstJSONObject(response); ok && gjson.Valid(region) {
			return entity.Answer{Format: format, Value: gjson.Parse(region).Value()}, nil
		}
		return entity.Answer{Format: format, Value: strings.TrimSpace(response)}, nil

	default:
		return entity.Answer{Format: format, Value: strings.TrimSpace(response)}, nil
	}
}

// firstJSONObject returns the first balanced {...} region in s, ignoring
// braces inside string literals.
func firstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for idx, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = idx
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : idx+1], true
			}
		}
	}
	return "", false
}
