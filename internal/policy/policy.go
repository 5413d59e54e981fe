// Package policy holds the planner's exclusion rules and cycle-break anchors.
package policy

import "slices"

// Policy decides which objects are never planned, which fields are never
// emitted, and which objects the automatic cycle breaker prefers.
type Policy struct {
	excludedObjects map[string]struct{}
	excludedFields  map[string]struct{}
	anchors         []string
}

// defaultExcludedObjects can neither be extracted nor loaded as rows: they
// are org configuration or identity objects.
var defaultExcludedObjects = []string{
	"BusinessHours",
	"Group",
	"Organization",
	"PermissionSet",
	"Profile",
	"RecordType",
	"User",
	"UserRole",
}

// defaultExcludedFields are system-maintained on every object.
var defaultExcludedFields = []string{
	"CreatedById",
	"CreatedDate",
	"Id",
	"IsDeleted",
	"LastActivityDate",
	"LastModifiedById",
	"LastModifiedDate",
	"LastReferencedDate",
	"LastViewedDate",
	"OwnerId",
	"SystemModstamp",
}

// DefaultAnchors are broken first when objects depend on each other in a
// mandatory cycle, since most other data hangs off them.
var DefaultAnchors = []string{"Account", "Contact", "Lead", "Campaign", "Opportunity"}

// Option customizes a Policy.
type Option func(*Policy)

// WithExcludedObjects adds object names that are never planned.
func WithExcludedObjects(names ...string) Option {
	return func(p *Policy) {
		for _, n := range names {
			p.excludedObjects[n] = struct{}{}
		}
	}
}

// WithIncludedObjects removes object names from the exclusion list.
func WithIncludedObjects(names ...string) Option {
	return func(p *Policy) {
		for _, n := range names {
			delete(p.excludedObjects, n)
		}
	}
}

// WithExcludedFields adds field names that group selectors never produce.
func WithExcludedFields(names ...string) Option {
	return func(p *Policy) {
		for _, n := range names {
			p.excludedFields[n] = struct{}{}
		}
	}
}

// WithAnchors replaces the anchor list; order is preference order.
func WithAnchors(names ...string) Option {
	return func(p *Policy) {
		p.anchors = append([]string(nil), names...)
	}
}

// New returns the default policy with opts applied.
func New(opts ...Option) *Policy {
	p := &Policy{
		excludedObjects: make(map[string]struct{}, len(defaultExcludedObjects)),
		excludedFields:  make(map[string]struct{}, len(defaultExcludedFields)),
		anchors:         append([]string(nil), DefaultAnchors...),
	}

	for _, n := range defaultExcludedObjects {
		p.excludedObjects[n] = struct{}{}
	}

	for _, n := range defaultExcludedFields {
		p.excludedFields[n] = struct{}{}
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ObjectExcluded reports whether the object is never planned.
func (p *Policy) ObjectExcluded(name string) bool {
	_, ok := p.excludedObjects[name]
	return ok
}

// FieldExcluded reports whether group selectors skip the field.
func (p *Policy) FieldExcluded(name string) bool {
	_, ok := p.excludedFields[name]
	return ok
}

// Anchors returns the cycle-break preference list.
func (p *Policy) Anchors() []string {
	return slices.Clone(p.anchors)
}
