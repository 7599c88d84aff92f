package console

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"grimm.is/moraine/internal/dashboard"
)

// renderRule formats a rule as a single stable line so rule lists can be
// diffed textually.
func renderRule(r dashboard.L3Rule) string {
	syslog := ""
	if r.SyslogEnabled {
		syslog = " syslog"
	}
	comment := ""
	if r.Comment != "" {
		comment = fmt.Sprintf(" # %s", r.Comment)
	}
	return fmt.Sprintf("%s %s %s:%s -> %s:%s%s%s",
		r.Policy, r.Protocol, r.SrcCidr, r.SrcPort, r.DestCidr, r.DestPort, syslog, comment)
}

func renderRules(rules []dashboard.L3Rule) string {
	var b strings.Builder
	for _, r := range rules {
		b.WriteString(renderRule(r))
		b.WriteString("\n")
	}
	return b.String()
}

// RuleDiff returns a unified diff between the current and proposed rule
// lists, or "" when they match.
func RuleDiff(current, proposed []dashboard.L3Rule) string {
	a := renderRules(current)
	b := renderRules(proposed)
	if a == b {
		return ""
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "current",
		ToFile:   "proposed",
		Context:  3,
	}
	text, _ := difflib.GetUnifiedDiffString(diff)
	return text
}
