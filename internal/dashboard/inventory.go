package dashboard

import (
	"context"
	"fmt"
)

// Inventory maps policy object and group names to their dashboard IDs.
// It is seeded once per run from the organization's full object listing
// and kept current as creates succeed, so CSV rows can reference objects
// by name regardless of whether they existed before the run.
type Inventory struct {
	objects map[string]string // name -> id
	groups  map[string]string
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		objects: make(map[string]string),
		groups:  make(map[string]string),
	}
}

// LoadInventory fetches all existing policy objects and groups and builds
// the name-to-ID maps.
func (c *Client) LoadInventory(ctx context.Context) (*Inventory, error) {
	inv := NewInventory()

	objects, err := c.ListPolicyObjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list policy objects: %w", err)
	}
	for _, obj := range objects {
		inv.AddObject(obj.Name, obj.ID.String())
	}

	groups, err := c.ListPolicyObjectGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list policy object groups: %w", err)
	}
	for _, g := range groups {
		inv.AddGroup(g.Name, g.ID.String())
	}

	c.log.Debug("inventory loaded", "objects", len(objects), "groups", len(groups))
	return inv, nil
}

// AddObject records a policy object's ID under its name.
func (i *Inventory) AddObject(name, id string) {
	i.objects[name] = id
}

// AddGroup records a group's ID under its name.
func (i *Inventory) AddGroup(name, id string) {
	i.groups[name] = id
}

// ObjectID looks up a policy object by name.
func (i *Inventory) ObjectID(name string) (string, bool) {
	id, ok := i.objects[name]
	return id, ok
}

// GroupID looks up a group by name.
func (i *Inventory) GroupID(name string) (string, bool) {
	id, ok := i.groups[name]
	return id, ok
}

// Counts returns the number of known objects and groups.
func (i *Inventory) Counts() (objects, groups int) {
	return len(i.objects), len(i.groups)
}

// TranslateCIDR rewrites a rule source/destination that names a policy
// object or group into the OBJ(id)/GRP(id) reference the rules endpoint
// expects. Plain CIDRs and "any" pass through untouched. Objects shadow
// groups when both carry the same name.
func (i *Inventory) TranslateCIDR(cidr string) string {
	if id, ok := i.objects[cidr]; ok {
		return fmt.Sprintf("OBJ(%s)", id)
	}
	if id, ok := i.groups[cidr]; ok {
		return fmt.Sprintf("GRP(%s)", id)
	}
	return cidr
}
