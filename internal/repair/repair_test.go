package repair

import "testing"

func TestRepair(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "valid array trimmed only",
			in:   "  [{\"question\": \"a\", \"options\": [\"1\"]}]\n",
			want: `[{"question": "a", "options": ["1"]}]`,
		},
		{
			name: "nested object keeps closing braces",
			in:   `[{"a": {"b": 1}}]`,
			want: `[{"a": {"b": 1}}]`,
		},
		{
			name: "doubled braces",
			in:   `[{{"question": "x", "options": ["1", "2"]}}]`,
			want: `[{"question": "x", "options": ["1", "2"]}]`,
		},
		{
			name: "surrounding prose",
			in:   "Berikut soalnya:\n[{\"question\": \"2 + 2\", \"correct_answer\": \"4\"}]\nSemoga membantu!",
			want: `[{"question": "2 + 2", "correct_answer": "4"}]`,
		},
		{
			name: "trailing commas",
			in:   `[{"question": "a", "options": ["1", "2",],},]`,
			want: `[{"question": "a", "options": ["1", "2"]}]`,
		},
		{
			name: "truncated output",
			in:   `[{"question": "a", "options": ["1", "2"`,
			want: `[{"question": "a", "options": ["1", "2"]}]`,
		},
		{
			name: "unterminated string",
			in:   `{"question": "Hasil dari 5 + 3`,
			want: `{"question": "Hasil dari 5 + 3"}`,
		},
		{
			name: "excess closer",
			in:   `{"a": 1}}`,
			want: `{"a": 1}`,
		},
		{
			name: "bare keys",
			in:   `{question: "Hasil 2 + 3", options: ["5", "6"], correct_answer: "5"}`,
			want: `{"question": "Hasil 2 + 3", "options": ["5", "6"], "correct_answer": "5"}`,
		},
		{
			name: "bare key lookalike inside string untouched",
			in:   `{question: "jam 7, menit: 30", options: ["1"]`,
			want: `{"question": "jam 7, menit: 30", "options": ["1"]}`,
		},
		{
			name: "empty pair noise",
			in:   `{"": "", "question": "x", "options": ["1"], "": "",}`,
			want: `{ "question": "x", "options": ["1"]}`,
		},
		{
			name: "no brackets",
			in:   "  maaf, saya tidak bisa  ",
			want: "maaf, saya tidak bisa",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Repair(tt.in)
			if got != tt.want {
				t.Errorf("Repair(%q)\n got  %q\n want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRepairIdempotent(t *testing.T) {
	inputs := []string{
		``,
		`{`,
		`[`,
		`]]]`,
		`}{`,
		`"`,
		`[{"a": "b\"c`,
		`[{{"q": 1}}, {{"q": 2}}]`,
		`teks [1, 2, {"a": [}`,
		`{a: 1, b: {c: [1, 2,`,
		`{"": "", "": ""}`,
		`[{"question": "x",}, {"question": "y"`,
		"```json\n[{\"question\": \"q\"}]\n```",
		`{"x": "}"}}`,
	}
	for _, in := range inputs {
		once := Repair(in)
		twice := Repair(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once  %q\n twice %q", in, once, twice)
		}
	}
}

func TestRepairProducesValidJSON(t *testing.T) {
	inputs := []string{
		`[{{"question": "x", "options": ["1", "2"]}}]`,
		`[{"question": "a", "options": ["1", "2"`,
		`{question: "q", options: ["1",],}`,
		"Ini hasilnya: {\"quiz\": [{\"question\": \"q\"}]} terima kasih",
		"```json\n[{\"question\": \"q\"}]\n```",
	}
	for _, in := range inputs {
		if out := Repair(in); !Valid(out) {
			t.Errorf("Repair(%q) = %q is not valid JSON", in, out)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`[]`, true},
		{` {"a": 1} `, true},
		{`"text"`, false},
		{`42`, false},
		{`{"a": }`, false},
		{``, false},
	}
	for _, tt := range tests {
		if got := Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
