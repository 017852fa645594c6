package synthesizer

import (
	"context"
	"reflect"
	"regexp"
	"strings"

	"github.com/traefik/yaegi/interp"
)

// exprPattern matches a candidate arithmetic expression embedded in a
// question ("What is 2+3?" -> "2+3").
var exprPattern = regexp.MustCompile(`[0-9+\-*/(). ]+`)

// findExpression returns the first substring of the question that looks
// like a standalone arithmetic expression. Expressions containing '/' are
// skipped because integer division would truncate, and '-' alone is not a
// trigger because dates like 2023-01-05 would read as subtraction; both go
// to the reasoning service instead.
func findExpression(question string) (string, bool) {
	for _, m := range exprPattern.FindAllString(question, -1) {
		expr := strings.TrimSpace(strings.Trim(m, ". "))
		if expr == "" || !strings.ContainsAny(expr, "+*") || strings.Contains(expr, "/") {
			continue
		}
		if !strings.ContainsAny(expr, "0123456789") {
			continue
		}
		if strings.Count(expr, "(") != strings.Count(expr, ")") {
			continue
		}
		return expr, true
	}
	return "", false
}

// evalExpression evaluates an arithmetic expression inside a fresh yaegi
// interpreter. The interpreter is given no standard library symbols, so
// the evaluated code has no access to the filesystem, the network, or
// anything else beyond literal arithmetic. A goroutine plus ctx bounds the
// evaluation time.
func evalExpression(ctx context.Context, expr string) (any, bool) {
	type evalResult struct {
		value any
		ok    bool
	}
	resultCh := make(chan evalResult, 1)

	go func() {
		i := interp.New(interp.Options{})
		v, err := i.Eval(expr)
		if err != nil || !v.IsValid() {
			resultCh <- evalResult{}
			return
		}
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			resultCh <- evalResult{value: int(v.Int()), ok: true}
		case reflect.Float32, reflect.Float64:
			resultCh <- evalResult{value: v.Float(), ok: true}
		default:
			resultCh <- evalResult{}
		}
	}()

	select {
	case res := <-resultCh:
		return res.value, res.ok
	case <-ctx.Done():
		return nil, false
	}
}
