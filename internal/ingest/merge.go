package ingest

import (
	"strings"

	"grimm.is/moraine/internal/dashboard"
)

// ruleKey is the case-insensitive identity of a rule for dedup purposes.
// Comments and syslog flags are cosmetic and deliberately excluded.
func ruleKey(r dashboard.L3Rule) string {
	fields := []string{r.Policy, r.Protocol, r.SrcCidr, r.DestCidr, r.SrcPort, r.DestPort}
	return strings.ToLower(strings.Join(fields, "|"))
}

const defaultRuleKey = "allow|any|any|any|any|any"

// IsDefaultRule reports whether r is the platform's implicit trailing
// allow-any rule, which must never be pushed back.
func IsDefaultRule(r dashboard.L3Rule) bool {
	return ruleKey(r) == defaultRuleKey
}

// MergeRules combines a network's existing ruleset with the incoming CSV
// rules. Existing rules keep their order (minus the default rule); incoming
// rules are appended only when their key is unseen. Single pass, order
// preserving.
func MergeRules(existing, incoming []dashboard.L3Rule) []dashboard.L3Rule {
	combined := make([]dashboard.L3Rule, 0, len(existing)+len(incoming))
	seen := make(map[string]bool, len(existing))

	for _, rule := range existing {
		key := ruleKey(rule)
		if key == defaultRuleKey {
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		combined = append(combined, rule)
	}

	for _, rule := range incoming {
		key := ruleKey(rule)
		if seen[key] {
			continue
		}
		seen[key] = true
		combined = append(combined, rule)
	}

	return combined
}

// StripDefaultRule removes any occurrence of the implicit default rule.
// Used on the overwrite path, where the CSV list is pushed as-is.
func StripDefaultRule(rules []dashboard.L3Rule) []dashboard.L3Rule {
	out := make([]dashboard.L3Rule, 0, len(rules))
	for _, rule := range rules {
		if IsDefaultRule(rule) {
			continue
		}
		out = append(out, rule)
	}
	return out
}
