// Package repair turns malformed JSON-ish model output into text that is
// more likely to parse. It never fails; callers decide whether the result
// is usable.
package repair

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// maxPasses bounds the fixpoint iteration in Repair.
const maxPasses = 16

var (
	emptyPairLeadRe  = regexp.MustCompile(`,\s*""\s*:\s*""`)
	emptyPairTrailRe = regexp.MustCompile(`""\s*:\s*""\s*,?`)
	bareKeyRe        = regexp.MustCompile(`([{,]\s*)([A-Za-z_]\w*)\s*:`)
	arraySpanRe      = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)
	objectSpanRe     = regexp.MustCompile(`(?s)\{\s*".*"\s*\}`)
	trailingCommaRe  = regexp.MustCompile(`,\s*([\]}])`)
)

// Repair applies the repair pass until the text stops changing.
// Already valid JSON arrays and objects are returned trimmed and untouched,
// and Repair(Repair(x)) == Repair(x).
func Repair(raw string) string {
	s := strings.TrimSpace(raw)
	for i := 0; i < maxPasses; i++ {
		next := pass(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

// Valid reports whether s is a JSON document with an array or object root.
func Valid(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || (s[0] != '[' && s[0] != '{') {
		return false
	}
	return gjson.Valid(s)
}

func pass(s string) string {
	s = strings.TrimSpace(s)
	if Valid(s) {
		return s
	}

	if strings.Contains(s, "{{") {
		s = strings.ReplaceAll(s, "{{", "{")
		s = strings.ReplaceAll(s, "}}", "}")
	}

	s = emptyPairLeadRe.ReplaceAllString(s, "")
	s = emptyPairTrailRe.ReplaceAllString(s, "")

	s = outsideStrings(s, func(seg string) string {
		return bareKeyRe.ReplaceAllString(seg, `$1"$2":`)
	})

	body, ok := locateBody(s)
	if !ok {
		return strings.TrimSpace(s)
	}

	body = outsideStrings(body, func(seg string) string {
		return trailingCommaRe.ReplaceAllString(seg, "$1")
	})

	return balance(body)
}

// locateBody extracts the JSON-looking span. It reports false when the text
// has no opening bracket at all.
func locateBody(s string) (string, bool) {
	if m := arraySpanRe.FindString(s); m != "" {
		return m, true
	}
	if m := objectSpanRe.FindString(s); m != "" {
		return m, true
	}

	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return s, false
	}
	end := strings.LastIndexAny(s, "]}")
	if end < start {
		return s[start:], true
	}
	return s[start : end+1], true
}

// balance closes unclosed brackets and strings, and drops everything from the
// first closer that has no matching opener.
func balance(s string) string {
	var stack []byte
	inStr, esc := false, false
	cut := len(s)

scan:
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '[', '{':
			stack = append(stack, c)
		case ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != opener(c) {
				cut = i
				break scan
			}
			stack = stack[:len(stack)-1]
		}
	}

	out := s[:cut]
	if cut < len(s) {
		out = strings.TrimRight(out, " \t\r\n,")
	}
	if inStr && cut == len(s) {
		out += `"`
	}
	if len(stack) == 0 {
		return out
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(out, " \t\r\n,"))
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(closer(stack[i]))
	}
	return b.String()
}

func opener(c byte) byte {
	if c == ']' {
		return '['
	}
	return '{'
}

func closer(c byte) byte {
	if c == '[' {
		return ']'
	}
	return '}'
}

// outsideStrings applies f to every span of s that lies outside a JSON
// string literal.
func outsideStrings(s string, f func(string) string) string {
	var b strings.Builder
	b.Grow(len(s))
	start := 0
	inStr, esc := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr {
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == '"':
				inStr = false
				b.WriteString(s[start : i+1])
				start = i + 1
			}
			continue
		}
		if c == '"' {
			b.WriteString(f(s[start:i]))
			start = i
			inStr = true
		}
	}
	if inStr {
		b.WriteString(s[start:])
	} else {
		b.WriteString(f(s[start:]))
	}
	return b.String()
}
