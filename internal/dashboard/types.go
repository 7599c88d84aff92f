package dashboard

import (
	"encoding/json"
	"strings"
)

// Network is an organization network as returned by the dashboard.
type Network struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ProductTypes []string `json:"productTypes,omitempty"`
	TimeZone     string   `json:"timeZone,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// IsAppliance reports whether the network contains a security appliance.
// Only appliance networks carry an L3 outbound ruleset.
func (n Network) IsAppliance() bool {
	for _, p := range n.ProductTypes {
		if strings.EqualFold(p, "appliance") {
			return true
		}
	}
	return false
}

// PolicyObject is a reusable address or FQDN object scoped to the
// organization. The dashboard is inconsistent about numeric vs string IDs
// across endpoints, so IDs are kept as json.Number and rendered on demand.
type PolicyObject struct {
	ID       json.Number   `json:"id,omitempty"`
	Name     string        `json:"name"`
	Category string        `json:"category"`           // "network", "adaptivePolicy"
	Type     string        `json:"type,omitempty"`     // "cidr", "fqdn", "ipAndMask"
	CIDR     string        `json:"cidr,omitempty"`
	FQDN     string        `json:"fqdn,omitempty"`
	IP       string        `json:"ip,omitempty"`
	Mask     string        `json:"mask,omitempty"`
	GroupIDs []json.Number `json:"groupIds,omitempty"`
}

// PolicyObjectGroup is a named collection of policy objects.
type PolicyObjectGroup struct {
	ID        json.Number   `json:"id,omitempty"`
	Name      string        `json:"name"`
	Category  string        `json:"category,omitempty"` // "NetworkObjectGroup"
	ObjectIDs []json.Number `json:"objectIds,omitempty"`
}

// L3Rule is one layer-3 outbound firewall rule. Field values follow the
// wire grammar: "any" wildcards, CIDRs, or OBJ()/GRP() references.
type L3Rule struct {
	Comment       string `json:"comment,omitempty"`
	Policy        string `json:"policy"`   // "allow" or "deny"
	Protocol      string `json:"protocol"` // "any", "tcp", "udp", "icmp", "icmp6"
	SrcCidr       string `json:"srcCidr"`
	SrcPort       string `json:"srcPort,omitempty"`
	DestCidr      string `json:"destCidr"`
	DestPort      string `json:"destPort,omitempty"`
	SyslogEnabled bool   `json:"syslogEnabled,omitempty"`
}

// ruleSet is the wire shape of the L3 firewall rules endpoint.
type ruleSet struct {
	Rules []L3Rule `json:"rules"`
}
