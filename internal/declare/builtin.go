package declare

// builtinWhere holds row filters merged into declarations of these objects
// when the user gives none. They keep org-provisioned sample rows out of
// extracts.
var builtinWhere = map[string]string{
	"Account":     "Name != 'Sample Account for Entitlements'",
	"Entitlement": "Name != 'Sample Entitlement'",
	"Pricebook2":  "IsStandard = false",
}

// DefaultWhere returns the built-in row filter for an object, if any.
func DefaultWhere(object string) (string, bool) {
	w, ok := builtinWhere[object]
	return w, ok
}
