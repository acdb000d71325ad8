package grammar

import (
	"testing"
)

func parseOne(t *testing.T, input string) *Rule {
	t.Helper()
	p := NewParser(input)
	rules := p.ParseRules()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse %q: unexpected errors: %v", input, p.Errors())
	}
	if len(rules) != 1 {
		t.Fatalf("parse %q: got %d rules, want 1", input, len(rules))
	}
	return rules[0]
}

func TestParseLiteralRule(t *testing.T) {
	rule := parseOne(t, `start: "hello";`)
	if rule.Name != "start" {
		t.Errorf("rule name = %q, want %q", rule.Name, "start")
	}
	lit, ok := rule.Body.(*Literal)
	if !ok {
		t.Fatalf("body is %T, want *Literal", rule.Body)
	}
	if lit.Text != "hello" {
		t.Errorf("literal text = %q, want %q", lit.Text, "hello")
	}
}

func TestParseAlternation(t *testing.T) {
	rule := parseOne(t, `scheme: "http" | "https" | "ftp";`)
	alt, ok := rule.Body.(*Alt)
	if !ok {
		t.Fatalf("body is %T, want *Alt", rule.Body)
	}
	if len(alt.Clauses) != 3 {
		t.Fatalf("got %d alternatives, want 3", len(alt.Clauses))
	}
	for i, want := range []string{"http", "https", "ftp"} {
		lit, ok := alt.Clauses[i].(*Literal)
		if !ok {
			t.Fatalf("alternative %d is %T, want *Literal", i, alt.Clauses[i])
		}
		if lit.Text != want {
			t.Errorf("alternative %d = %q, want %q", i, lit.Text, want)
		}
	}
}

func TestParseSequence(t *testing.T) {
	rule := parseOne(t, `start: scheme "://" host;`)
	seq, ok := rule.Body.(*Seq)
	if !ok {
		t.Fatalf("body is %T, want *Seq", rule.Body)
	}
	if len(seq.Clauses) != 3 {
		t.Fatalf("got %d sequence items, want 3", len(seq.Clauses))
	}
	if ref, ok := seq.Clauses[0].(*Ref); !ok || ref.Name != "scheme" {
		t.Errorf("first item = %#v, want Ref(scheme)", seq.Clauses[0])
	}
	if lit, ok := seq.Clauses[1].(*Literal); !ok || lit.Text != "://" {
		t.Errorf("second item = %#v, want Literal(://)", seq.Clauses[1])
	}
}

func TestParseRepetitions(t *testing.T) {
	tests := []struct {
		input    string
		min, max int
	}{
		{`r: "a"*;`, 0, -1},
		{`r: "a"+;`, 1, -1},
		{`r: "a"?;`, 0, 1},
		{`r: "a"{3};`, 3, 3},
		{`r: "a"{2,5};`, 2, 5},
		{`r: "a"{2,};`, 2, -1},
	}

	for _, tc := range tests {
		rule := parseOne(t, tc.input)
		rep, ok := rule.Body.(*Rep)
		if !ok {
			t.Fatalf("parse %q: body is %T, want *Rep", tc.input, rule.Body)
		}
		if rep.Min != tc.min || rep.Max != tc.max {
			t.Errorf("parse %q: bounds {%d,%d}, want {%d,%d}", tc.input, rep.Min, rep.Max, tc.min, tc.max)
		}
	}
}

func TestParseCharClass(t *testing.T) {
	rule := parseOne(t, `digit: [0-9];`)
	class, ok := rule.Body.(*Class)
	if !ok {
		t.Fatalf("body is %T, want *Class", rule.Body)
	}
	if len(class.Chars) != 10 {
		t.Fatalf("expanded to %d characters, want 10", len(class.Chars))
	}
	if class.Chars[0] != '0' || class.Chars[9] != '9' {
		t.Errorf("range endpoints = %q..%q, want '0'..'9'", class.Chars[0], class.Chars[9])
	}
}

func TestParseClassWithEscapes(t *testing.T) {
	rule := parseOne(t, `sep: [a\-\]];`)
	class, ok := rule.Body.(*Class)
	if !ok {
		t.Fatalf("body is %T, want *Class", rule.Body)
	}
	got := map[rune]bool{}
	for _, ch := range class.Chars {
		got[ch] = true
	}
	for _, want := range []rune{'a', '-', ']'} {
		if !got[want] {
			t.Errorf("class missing %q", want)
		}
	}
}

func TestParseGroupPrecedence(t *testing.T) {
	// Without the group this would parse as "a" | ("b" "c").
	rule := parseOne(t, `r: ("a" | "b") "c";`)
	seq, ok := rule.Body.(*Seq)
	if !ok {
		t.Fatalf("body is %T, want *Seq", rule.Body)
	}
	if len(seq.Clauses) != 2 {
		t.Fatalf("got %d sequence items, want 2", len(seq.Clauses))
	}
	if _, ok := seq.Clauses[0].(*Alt); !ok {
		t.Errorf("first item is %T, want *Alt", seq.Clauses[0])
	}
}

func TestParseGroupRepetition(t *testing.T) {
	rule := parseOne(t, `host: label ("." label)*;`)
	seq, ok := rule.Body.(*Seq)
	if !ok {
		t.Fatalf("body is %T, want *Seq", rule.Body)
	}
	rep, ok := seq.Clauses[1].(*Rep)
	if !ok {
		t.Fatalf("second item is %T, want *Rep", seq.Clauses[1])
	}
	if rep.Min != 0 || rep.Max != -1 {
		t.Errorf("bounds {%d,%d}, want {0,-1}", rep.Min, rep.Max)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		desc  string
	}{
		{`start: "a"`, "missing semicolon"},
		{`: "a";`, "missing rule name"},
		{`start "a";`, "missing colon"},
		{`start: ;`, "empty body"},
		{`start: "a"{5,2};`, "inverted bounds"},
		{`start: [z-a];`, "inverted class range"},
		{`start: [a-];`, "dangling class range"},
		{`start: ("a";`, "unclosed group"},
	}

	for _, tc := range tests {
		p := NewParser(tc.input)
		p.ParseRules()
		if len(p.Errors()) == 0 {
			t.Errorf("%s: parse %q succeeded, want errors", tc.desc, tc.input)
		}
	}
}

func TestParseErrorRecovery(t *testing.T) {
	input := `good: "a";
bad: ;
also-good: "b";`

	p := NewParser(input)
	rules := p.ParseRules()
	if len(p.Errors()) == 0 {
		t.Fatal("expected errors for the malformed middle rule")
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules after recovery, want 2", len(rules))
	}
	if rules[0].Name != "good" || rules[1].Name != "also-good" {
		t.Errorf("recovered rules = %q, %q", rules[0].Name, rules[1].Name)
	}
}
