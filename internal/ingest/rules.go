package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"grimm.is/moraine/internal/dashboard"
	"grimm.is/moraine/internal/validation"
)

// RuleRow is one validated line of the L3 rules CSV.
type RuleRow struct {
	Line int
	Rule dashboard.L3Rule
}

// ReadRules parses the L3 outbound rules CSV. Endpoint columns may hold
// "any", a CIDR, or the name of a policy object/group (resolved later
// against the inventory). Rows that fail validation are reported and
// excluded; only a malformed file is a hard error.
func ReadRules(r io.Reader) ([]RuleRow, []RowError, error) {
	records, header, err := readCSV(r)
	if err != nil {
		return nil, nil, err
	}

	var rows []RuleRow
	var rowErrs []RowError
	for i, record := range records {
		line := i + 2
		rule, err := ruleFromRecord(header, record)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}
		rows = append(rows, RuleRow{Line: line, Rule: rule})
	}
	return rows, rowErrs, nil
}

func ruleFromRecord(header map[string]int, record []string) (dashboard.L3Rule, error) {
	get := func(col string) string {
		idx, ok := header[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rule := dashboard.L3Rule{
		Comment:  get("comment"),
		Policy:   strings.ToLower(get("policy")),
		Protocol: strings.ToLower(get("protocol")),
		SrcCidr:  get("srcCidr"),
		SrcPort:  get("srcPort"),
		DestCidr: get("destCidr"),
		DestPort: get("destPort"),
	}

	if v := get("syslogEnabled"); v != "" {
		enabled, err := strconv.ParseBool(strings.ToLower(v))
		if err != nil {
			return rule, fmt.Errorf("syslogEnabled: %w", err)
		}
		rule.SyslogEnabled = enabled
	}

	if rule.Protocol == "" {
		rule.Protocol = "any"
	}
	if rule.SrcPort == "" {
		rule.SrcPort = "any"
	}
	if rule.DestPort == "" {
		rule.DestPort = "any"
	}

	if err := validation.ValidatePolicy(rule.Policy); err != nil {
		return rule, err
	}
	if err := validation.ValidateProtocol(rule.Protocol); err != nil {
		return rule, err
	}
	if err := validation.ValidatePortSpec(rule.SrcPort); err != nil {
		return rule, fmt.Errorf("srcPort: %w", err)
	}
	if err := validation.ValidatePortSpec(rule.DestPort); err != nil {
		return rule, fmt.Errorf("destPort: %w", err)
	}
	if err := validateEndpoint(rule.SrcCidr); err != nil {
		return rule, fmt.Errorf("srcCidr: %w", err)
	}
	if err := validateEndpoint(rule.DestCidr); err != nil {
		return rule, fmt.Errorf("destCidr: %w", err)
	}

	return rule, nil
}

// validateEndpoint accepts "any", a CIDR/IP, or an object/group name.
// Whether a name actually resolves is only known once the inventory is
// loaded, so the offline check is shape-only.
func validateEndpoint(s string) error {
	if s == "" {
		return fmt.Errorf("cannot be empty")
	}
	if strings.EqualFold(s, "any") {
		return nil
	}
	if validation.ValidateIPOrCIDR(s) == nil {
		return nil
	}
	return validation.ValidateObjectName(s)
}

// Translate rewrites object/group name references in rule endpoints into
// OBJ()/GRP() form using the inventory. Unknown names pass through and are
// rejected by the API, mirroring how typos surfaced before translation
// existed.
func Translate(rules []dashboard.L3Rule, inv *dashboard.Inventory) []dashboard.L3Rule {
	out := make([]dashboard.L3Rule, len(rules))
	for i, rule := range rules {
		rule.SrcCidr = inv.TranslateCIDR(rule.SrcCidr)
		rule.DestCidr = inv.TranslateCIDR(rule.DestCidr)
		out[i] = rule
	}
	return out
}
