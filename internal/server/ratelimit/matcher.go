package ratelimit

import (
	"strings"
)

// MatchRule returns the rule for a request path and method, or nil if none
// applies. Exact paths win over prefix rules.
func MatchRule(path string, method string, rules []Rule) *Rule {
	for i := range rules {
		if rules[i].Method == method && rules[i].Path == path {
			return &rules[i]
		}
	}

	for i := range rules {
		rule := &rules[i]
		if rule.Method == method && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			return rule
		}
	}

	return nil
}
