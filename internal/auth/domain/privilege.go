package domain

// Privilege action names, used in API payloads and authorization checks.
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionExport = "export"
	ActionImport = "import"
	ActionPrint  = "print"
)

// PrivilegeSet is the seven-bit capability vector attached to both resources
// (which bits are meaningful) and role privileges (which bits are granted).
type PrivilegeSet struct {
	Create bool `json:"create"`
	Read   bool `json:"read"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
	Export bool `json:"export"`
	Import bool `json:"import"`
	Print  bool `json:"print"`
}

// Union returns the bitwise OR of p and q. Effective permissions across
// multiple roles are the union of each role's grants.
func (p PrivilegeSet) Union(q PrivilegeSet) PrivilegeSet {
	return PrivilegeSet{
		Create: p.Create || q.Create,
		Read:   p.Read || q.Read,
		Update: p.Update || q.Update,
		Delete: p.Delete || q.Delete,
		Export: p.Export || q.Export,
		Import: p.Import || q.Import,
		Print:  p.Print || q.Print,
	}
}

// SubsetOf reports whether every bit set in p is also set in q. Grant bits
// must be a subset of the resource's capability bits.
func (p PrivilegeSet) SubsetOf(q PrivilegeSet) bool {
	return (!p.Create || q.Create) &&
		(!p.Read || q.Read) &&
		(!p.Update || q.Update) &&
		(!p.Delete || q.Delete) &&
		(!p.Export || q.Export) &&
		(!p.Import || q.Import) &&
		(!p.Print || q.Print)
}

// Has reports whether the named action bit is set. Unknown actions are false.
func (p PrivilegeSet) Has(action string) bool {
	switch action {
	case ActionCreate:
		return p.Create
	case ActionRead:
		return p.Read
	case ActionUpdate:
		return p.Update
	case ActionDelete:
		return p.Delete
	case ActionExport:
		return p.Export
	case ActionImport:
		return p.Import
	case ActionPrint:
		return p.Print
	default:
		return false
	}
}

// IsZero reports whether no bit is set.
func (p PrivilegeSet) IsZero() bool {
	return p == PrivilegeSet{}
}

// RolePrivilege is the grant record tying a role to a resource. Composite
// key (RoleID, ResourceID).
type RolePrivilege struct {
	RoleID     string
	ResourceID string
	Grants     PrivilegeSet
}
