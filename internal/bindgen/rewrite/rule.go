// Package rewrite applies counted text substitutions.
//
// Every rule reports how often its pattern matched so callers can tell a
// deliberate no-op apart from a generator whose output shape changed.
package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// Expectation states how many matches a rule must see.
type Expectation int

const (
	// Any accepts zero or more matches.
	Any Expectation = iota
	// AtLeastOnce fails when the pattern does not occur.
	AtLeastOnce
	// ExactlyOnce fails unless the pattern occurs a single time.
	ExactlyOnce
	// AtMostOnce fails when the pattern occurs more than once.
	AtMostOnce
)

func (e Expectation) String() string {
	switch e {
	case AtLeastOnce:
		return "at least once"
	case ExactlyOnce:
		return "exactly once"
	case AtMostOnce:
		return "at most once"
	default:
		return "any"
	}
}

func (e Expectation) holds(count int) bool {
	switch e {
	case AtLeastOnce:
		return count >= 1
	case ExactlyOnce:
		return count == 1
	case AtMostOnce:
		return count <= 1
	default:
		return true
	}
}

// Rule is a single substitution. Exactly one of Literal or Pattern is set.
type Rule struct {
	Name    string
	Literal string
	Pattern *regexp.Regexp
	// Replacement is used verbatim for literal rules and expanded ($1, ${name})
	// for regexp rules.
	Replacement string
	Expect      Expectation
}

// Result carries the rewritten text and how many matches were replaced.
type Result struct {
	Text  string
	Count int
}

// ExpectationError is returned when a rule matched a different number of
// times than it declared.
type ExpectationError struct {
	Rule   string
	Expect Expectation
	Count  int
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("rewrite %q: expected match %s, got %d", e.Rule, e.Expect, e.Count)
}

// Literal builds a rule replacing every occurrence of from.
func Literal(name, from, to string, expect Expectation) Rule {
	return Rule{Name: name, Literal: from, Replacement: to, Expect: expect}
}

// Regexp builds a rule replacing every match of pattern. The pattern must compile.
func Regexp(name, pattern, to string, expect Expectation) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern), Replacement: to, Expect: expect}
}

// Count returns how many times the rule's pattern occurs in text.
func (r Rule) Count(text string) int {
	if r.Pattern != nil {
		return len(r.Pattern.FindAllStringIndex(text, -1))
	}
	if r.Literal == "" {
		return 0
	}
	return strings.Count(text, r.Literal)
}

// Replace substitutes every match without checking the expectation.
func (r Rule) Replace(text string) Result {
	count := r.Count(text)
	if count == 0 {
		return Result{Text: text}
	}
	if r.Pattern != nil {
		return Result{Text: r.Pattern.ReplaceAllString(text, r.Replacement), Count: count}
	}
	return Result{Text: strings.ReplaceAll(text, r.Literal, r.Replacement), Count: count}
}

// Apply substitutes every match and enforces the rule's expectation. On a
// violated expectation the input text is returned unchanged.
func (r Rule) Apply(text string) (Result, error) {
	res := r.Replace(text)
	if !r.Expect.holds(res.Count) {
		return Result{Text: text, Count: res.Count}, &ExpectationError{Rule: r.Name, Expect: r.Expect, Count: res.Count}
	}
	return res, nil
}

// Counts maps rule names to match counts in application order.
type Counts []NamedCount

// NamedCount pairs a rule name with its match count.
type NamedCount struct {
	Rule  string
	Count int
}

// Get returns the count recorded for rule, or -1 if the rule never ran.
func (c Counts) Get(rule string) int {
	for _, nc := range c {
		if nc.Rule == rule {
			return nc.Count
		}
	}
	return -1
}

// ApplyAll runs rules in order, stopping at the first violated expectation.
func ApplyAll(text string, rules ...Rule) (string, Counts, error) {
	counts := make(Counts, 0, len(rules))
	for _, rule := range rules {
		res, err := rule.Apply(text)
		counts = append(counts, NamedCount{Rule: rule.Name, Count: res.Count})
		if err != nil {
			return text, counts, err
		}
		text = res.Text
	}
	return text, counts, nil
}
