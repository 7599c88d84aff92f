package validation

import (
	"strings"
	"testing"
)

func TestValidateObjectName(t *testing.T) {
	valid := []string{
		"web-server",
		"Branch Office 01",
		"db_primary.prod",
		"a",
	}
	for _, name := range valid {
		if err := ValidateObjectName(name); err != nil {
			t.Errorf("ValidateObjectName(%q) unexpected error: %v", name, err)
		}
	}

	invalid := []string{
		"",
		"bad;name",
		"rm -rf $(HOME)",
		"tab\tname",
		strings.Repeat("x", 128),
	}
	for _, name := range invalid {
		if err := ValidateObjectName(name); err == nil {
			t.Errorf("ValidateObjectName(%q) expected error, got nil", name)
		}
	}
}

func TestValidateIPOrCIDR(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"10.0.0.1", false},
		{"10.0.0.0/24", false},
		{"2001:db8::1", false},
		{"2001:db8::/32", false},
		{"", true},
		{"10.0.0.256", true},
		{"10.0.0.0/33", true},
		{"not-an-ip", true},
	}

	for _, tc := range tests {
		err := ValidateIPOrCIDR(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ValidateIPOrCIDR(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
	}
}

func TestValidateFQDN(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"example.com", false},
		{"www.example.com", false},
		{"*.example.com", false},
		{"a-b.example.co.uk", false},
		{"", true},
		{"example", true},
		{"-bad.example.com", true},
		{"*.*.example.com", true},
		{strings.Repeat("a", 250) + ".com", true},
	}

	for _, tc := range tests {
		err := ValidateFQDN(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ValidateFQDN(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
	}
}

func TestValidatePortSpec(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"any", false},
		{"Any", false},
		{"443", false},
		{"80,443", false},
		{"80, 443, 8080", false},
		{"1000-2000", false},
		{"80,1000-2000", false},
		{"", true},
		{"0", true},
		{"65536", true},
		{"http", true},
		{"80-", true},
	}

	for _, tc := range tests {
		err := ValidatePortSpec(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ValidatePortSpec(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
	}
}

func TestValidatePolicy(t *testing.T) {
	for _, p := range []string{"allow", "deny", "Allow", "DENY"} {
		if err := ValidatePolicy(p); err != nil {
			t.Errorf("ValidatePolicy(%q) unexpected error: %v", p, err)
		}
	}
	for _, p := range []string{"", "accept", "drop", "reject"} {
		if err := ValidatePolicy(p); err == nil {
			t.Errorf("ValidatePolicy(%q) expected error, got nil", p)
		}
	}
}

func TestValidateProtocol(t *testing.T) {
	for _, p := range []string{"any", "tcp", "UDP", "icmp", "icmp6"} {
		if err := ValidateProtocol(p); err != nil {
			t.Errorf("ValidateProtocol(%q) unexpected error: %v", p, err)
		}
	}
	for _, p := range []string{"", "gre", "sctp"} {
		if err := ValidateProtocol(p); err == nil {
			t.Errorf("ValidateProtocol(%q) expected error, got nil", p)
		}
	}
}
