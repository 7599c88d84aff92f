package dashboard

import (
	"context"
	"net/http"
)

// ListNetworks returns every network in the organization.
func (c *Client) ListNetworks(ctx context.Context) ([]Network, error) {
	return listPaged[Network](ctx, c, c.orgPath("/networks"), nil)
}

// ListApplianceNetworks returns the organization's appliance networks,
// optionally restricted to an exact-name filter. An empty filter selects
// every appliance network.
func (c *Client) ListApplianceNetworks(ctx context.Context, names []string) ([]Network, error) {
	all, err := c.ListNetworks(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []Network
	for _, n := range all {
		if !n.IsAppliance() {
			continue
		}
		if len(wanted) > 0 && !wanted[n.Name] {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// ListPolicyObjects returns every policy object in the organization.
func (c *Client) ListPolicyObjects(ctx context.Context) ([]PolicyObject, error) {
	return listPaged[PolicyObject](ctx, c, c.orgPath("/policyObjects"), nil)
}

// ListPolicyObjectGroups returns every policy object group in the organization.
func (c *Client) ListPolicyObjectGroups(ctx context.Context) ([]PolicyObjectGroup, error) {
	return listPaged[PolicyObjectGroup](ctx, c, c.orgPath("/policyObjects/groups"), nil)
}

// CreatePolicyObject creates a policy object and returns the stored copy.
func (c *Client) CreatePolicyObject(ctx context.Context, obj PolicyObject) (*PolicyObject, error) {
	var created PolicyObject
	_, err := c.do(ctx, http.MethodPost, c.orgPath("/policyObjects"), obj, &created)
	if err != nil {
		return nil, err
	}
	c.log.Audit("create", "policyObject/"+created.Name, map[string]any{
		"id": created.ID.String(), "org": c.orgID,
	})
	return &created, nil
}

// CreatePolicyObjectGroup creates a policy object group and returns the
// stored copy.
func (c *Client) CreatePolicyObjectGroup(ctx context.Context, group PolicyObjectGroup) (*PolicyObjectGroup, error) {
	var created PolicyObjectGroup
	_, err := c.do(ctx, http.MethodPost, c.orgPath("/policyObjects/groups"), group, &created)
	if err != nil {
		return nil, err
	}
	c.log.Audit("create", "policyObjectGroup/"+created.Name, map[string]any{
		"id": created.ID.String(), "org": c.orgID,
	})
	return &created, nil
}
