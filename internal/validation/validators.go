// Package validation holds field validators applied to CSV rows before any
// dashboard API call is made. Rejecting bad rows locally keeps the rate
// budget for requests that can actually succeed.
package validation

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Valid object/group name: alphanumeric, space, dash, underscore, dot.
	// The dashboard rejects anything else.
	objectNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_. -]{1,127}$`)

	// FQDN labels: alphanumeric with inner dashes, dot separated.
	// A single leading wildcard label is allowed ("*.example.com").
	fqdnRegex = regexp.MustCompile(`^(\*\.)?([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

	// Dangerous characters that should never appear in identifiers
	dangerousChars = []string{";", "|", "&", "$", "`", "(", ")", "<", ">", "\\", "\"", "'", "\n", "\r"}
)

// ValidateObjectName validates a policy object or group name.
func ValidateObjectName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if !objectNameRegex.MatchString(name) {
		return fmt.Errorf("invalid name: %s (must be alphanumeric with spaces, -_.)", name)
	}

	for _, char := range dangerousChars {
		if strings.Contains(name, char) {
			return fmt.Errorf("name contains dangerous character: %s", char)
		}
	}

	return nil
}

// ValidateIPOrCIDR validates an IP address or CIDR range.
func ValidateIPOrCIDR(s string) error {
	if s == "" {
		return fmt.Errorf("IP/CIDR cannot be empty")
	}

	// Try parsing as CIDR first
	if strings.Contains(s, "/") {
		_, _, err := net.ParseCIDR(s)
		if err != nil {
			return fmt.Errorf("invalid CIDR: %w", err)
		}
		return nil
	}

	// Try parsing as IP
	ip := net.ParseIP(s)
	if ip == nil {
		return fmt.Errorf("invalid IP address: %s", s)
	}

	return nil
}

// ValidateFQDN validates a fully qualified domain name. A single leading
// wildcard label is accepted.
func ValidateFQDN(s string) error {
	if s == "" {
		return fmt.Errorf("FQDN cannot be empty")
	}
	if len(s) > 253 {
		return fmt.Errorf("FQDN too long (max 253 characters): %s", s)
	}
	if !fqdnRegex.MatchString(s) {
		return fmt.Errorf("invalid FQDN: %s", s)
	}
	return nil
}

// ValidatePortSpec validates a rule port field: "any", a single port, a
// comma-separated list, or a dash range.
func ValidatePortSpec(spec string) error {
	if spec == "" {
		return fmt.Errorf("port spec cannot be empty")
	}
	if strings.EqualFold(spec, "any") {
		return nil
	}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			if err := validatePortNumber(lo); err != nil {
				return err
			}
			if err := validatePortNumber(hi); err != nil {
				return err
			}
			continue
		}
		if err := validatePortNumber(part); err != nil {
			return err
		}
	}
	return nil
}

func validatePortNumber(s string) error {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid port: %s", s)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port number: %d (must be 1-65535)", port)
	}
	return nil
}

// ValidatePolicy validates a rule action.
func ValidatePolicy(policy string) error {
	switch strings.ToLower(policy) {
	case "allow", "deny":
		return nil
	}
	return fmt.Errorf("invalid policy: %s (must be allow or deny)", policy)
}

// ValidateProtocol validates a rule protocol.
func ValidateProtocol(proto string) error {
	validProtocols := []string{"any", "tcp", "udp", "icmp", "icmp6"}
	proto = strings.ToLower(proto)

	for _, valid := range validProtocols {
		if proto == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid protocol: %s (must be one of: %s)", proto, strings.Join(validProtocols, ", "))
}
