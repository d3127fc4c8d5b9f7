package problemgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kuisku/kuisku/internal/quiz"
	"github.com/kuisku/kuisku/internal/repair"
)

// ErrUnparseable reports a payload that is still not usable JSON after
// repair. It is not retried here; the caller decides whether to ask again.
type ErrUnparseable struct {
	Raw      string
	Repaired string
	Err      error
}

func (e *ErrUnparseable) Error() string {
	return fmt.Sprintf("unparseable quiz payload: %v", e.Err)
}

func (e *ErrUnparseable) Unwrap() error { return e.Err }

var (
	errInvalidJSON = errors.New("invalid JSON after repair")
	errUnknownRoot = errors.New("expected an array, an object with \"quiz\", or a single question object")
)

// ParseCandidates repairs raw model output and extracts candidate items.
// Accepted roots are an array of items, {"quiz": [...]}, or a single item
// object with "question" and "options". Non-object array entries are skipped.
func ParseCandidates(raw string) ([]quiz.RawCandidateItem, error) {
	repaired := repair.Repair(raw)
	if !gjson.Valid(repaired) {
		return nil, &ErrUnparseable{Raw: raw, Repaired: repaired, Err: errInvalidJSON}
	}

	root := gjson.Parse(repaired)
	var list []gjson.Result
	switch {
	case root.IsArray():
		list = root.Array()
	case root.IsObject() && root.Get("question").Exists() && root.Get("options").IsArray():
		list = []gjson.Result{root}
	case root.IsObject() && root.Get("quiz").IsArray():
		list = root.Get("quiz").Array()
	default:
		return nil, &ErrUnparseable{Raw: raw, Repaired: repaired, Err: errUnknownRoot}
	}

	items := make([]quiz.RawCandidateItem, 0, len(list))
	for _, r := range list {
		if !r.IsObject() {
			continue
		}
		items = append(items, candidateFrom(r))
	}
	return items, nil
}

func candidateFrom(r gjson.Result) quiz.RawCandidateItem {
	item := quiz.RawCandidateItem{
		Question: strings.TrimSpace(r.Get("question").String()),
		Options:  optionsFrom(r.Get("options")),
	}
	if ans := r.Get("correct_answer"); ans.Exists() && ans.Type != gjson.Null {
		item.SuggestedAnswer = ans.String()
		item.HasSuggestion = true
	}
	return item
}

// optionsFrom accepts a JSON array of scalars or a single string holding
// one option per line or comma-separated options.
func optionsFrom(v gjson.Result) []string {
	switch {
	case v.IsArray():
		var out []string
		for _, o := range v.Array() {
			if o.Type == gjson.Null {
				continue
			}
			out = append(out, o.String())
		}
		return out
	case v.Type == gjson.String:
		sep := ","
		if strings.Contains(v.Str, "\n") {
			sep = "\n"
		}
		var out []string
		for _, part := range strings.Split(v.Str, sep) {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}
