// Package ingest reads the two CSV inputs and prepares them for the
// dashboard: header-mapped parsing, per-row validation with line numbers,
// name-reference translation and ordered rule-list merging.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"grimm.is/moraine/internal/dashboard"
	"grimm.is/moraine/internal/validation"
)

// GroupColumn is the objects-CSV column that assigns the row's object to a
// policy object group. The underscore marks it as tooling metadata rather
// than an API field.
const GroupColumn = "_group_name"

// ObjectRow is one validated line of the policy objects CSV.
type ObjectRow struct {
	Line      int // 1-based line in the CSV, header included
	Object    dashboard.PolicyObject
	GroupName string // optional group to create-or-reuse and attach to
}

// RowError is a per-row problem that skips the row without aborting the run.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ReadObjects parses the policy objects CSV. Rows that fail validation are
// reported in the second return value and excluded from the first; only a
// malformed file is a hard error.
func ReadObjects(r io.Reader) ([]ObjectRow, []RowError, error) {
	records, header, err := readCSV(r)
	if err != nil {
		return nil, nil, err
	}

	var rows []ObjectRow
	var rowErrs []RowError
	for i, record := range records {
		line := i + 2 // header is line 1
		row, err := objectFromRecord(header, record)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}
		row.Line = line
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

func objectFromRecord(header map[string]int, record []string) (ObjectRow, error) {
	get := func(col string) string {
		idx, ok := header[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	obj := dashboard.PolicyObject{
		Name:     get("name"),
		Category: get("category"),
		Type:     get("type"),
		CIDR:     get("cidr"),
		FQDN:     get("fqdn"),
		IP:       get("ip"),
		Mask:     get("mask"),
	}
	row := ObjectRow{Object: obj, GroupName: get(GroupColumn)}

	if err := validation.ValidateObjectName(row.Object.Name); err != nil {
		return row, err
	}
	if row.GroupName != "" {
		if err := validation.ValidateObjectName(row.GroupName); err != nil {
			return row, fmt.Errorf("group: %w", err)
		}
	}

	if row.Object.Category == "" {
		row.Object.Category = "network"
	}

	// Infer the type from whichever value column is present
	if row.Object.Type == "" {
		switch {
		case row.Object.CIDR != "":
			row.Object.Type = "cidr"
		case row.Object.FQDN != "":
			row.Object.Type = "fqdn"
		case row.Object.IP != "" && row.Object.Mask != "":
			row.Object.Type = "ipAndMask"
		default:
			return row, fmt.Errorf("row needs one of cidr, fqdn, or ip+mask")
		}
	}

	switch row.Object.Type {
	case "cidr":
		if err := validation.ValidateIPOrCIDR(row.Object.CIDR); err != nil {
			return row, err
		}
	case "fqdn":
		if err := validation.ValidateFQDN(row.Object.FQDN); err != nil {
			return row, err
		}
	case "ipAndMask":
		if err := validation.ValidateIPOrCIDR(row.Object.IP); err != nil {
			return row, fmt.Errorf("ip: %w", err)
		}
		if err := validation.ValidateIPOrCIDR(row.Object.Mask); err != nil {
			return row, fmt.Errorf("mask: %w", err)
		}
	default:
		return row, fmt.Errorf("unknown object type %q", row.Object.Type)
	}

	return row, nil
}

// readCSV consumes the header line and returns the remaining records plus a
// column-name index.
func readCSV(r io.Reader) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows handled per-field
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("CSV is empty")
	}

	header := make(map[string]int, len(all[0]))
	for i, col := range all[0] {
		header[strings.TrimSpace(col)] = i
	}
	return all[1:], header, nil
}
