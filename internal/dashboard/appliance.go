package dashboard

import (
	"context"
	"net/http"
	"net/url"
)

// GetL3FirewallRules fetches a network's L3 outbound ruleset. The trailing
// default allow-any rule the platform appends is included as returned.
func (c *Client) GetL3FirewallRules(ctx context.Context, networkID string) ([]L3Rule, error) {
	var rs ruleSet
	path := "/networks/" + url.PathEscape(networkID) + "/appliance/firewall/l3FirewallRules"
	if _, err := c.do(ctx, http.MethodGet, path, nil, &rs); err != nil {
		return nil, err
	}
	return rs.Rules, nil
}

// UpdateL3FirewallRules replaces a network's L3 outbound ruleset. The
// submitted list must not contain the default rule; the platform appends
// it on its own.
func (c *Client) UpdateL3FirewallRules(ctx context.Context, networkID string, rules []L3Rule) ([]L3Rule, error) {
	if rules == nil {
		rules = []L3Rule{}
	}
	var rs ruleSet
	path := "/networks/" + url.PathEscape(networkID) + "/appliance/firewall/l3FirewallRules"
	if _, err := c.do(ctx, http.MethodPut, path, ruleSet{Rules: rules}, &rs); err != nil {
		return nil, err
	}
	c.log.Audit("update", "l3FirewallRules/"+networkID, map[string]any{
		"rules": len(rules), "org": c.orgID,
	})
	return rs.Rules, nil
}
