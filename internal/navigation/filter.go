package navigation

import "github.com/paracurve/claimdesk/internal/domain"

// ForRole returns the ordered navigation for a role.
//
//   - system_admin receives the platform tree, exclusively.
//   - admin receives the general tree filtered by the visibility rule,
//     followed by the whole admin tree unfiltered. The secondary tree is
//     not part of admin navigation.
//   - every other known role receives the general tree followed by the
//     secondary tree, both filtered.
//   - an unknown role receives nothing; there is no error condition.
func ForRole(role domain.Role) []Item {
	switch {
	case role == domain.RoleSystemAdmin:
		return cloneTree(platformTree)
	case role == domain.RoleAdmin:
		items := filterTree(generalTree, role)
		return append(items, cloneTree(adminTree)...)
	case role.IsValid():
		items := filterTree(generalTree, role)
		return append(items, filterTree(secondaryTree, role)...)
	default:
		return nil
	}
}

// filterTree keeps the items visible to the role, recursing into children.
// A hidden parent hides its whole subtree.
func filterTree(tree []Item, role domain.Role) []Item {
	var out []Item
	for _, item := range tree {
		if !item.visibleTo(role) {
			continue
		}
		kept := item.clone()
		kept.Children = filterTree(item.Children, role)
		out = append(out, kept)
	}
	return out
}

func cloneTree(tree []Item) []Item {
	out := make([]Item, 0, len(tree))
	for _, item := range tree {
		out = append(out, item.clone())
	}
	return out
}
