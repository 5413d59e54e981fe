// Package schematest builds schema snapshots for tests.
package schematest

import "dataplan/internal/schema"

// Required is a createable field that must be supplied on insert.
func Required(name string) *schema.Field {
	return &schema.Field{Name: name, Createable: true, Custom: isCustom(name)}
}

// Optional is a createable, nillable field.
func Optional(name string) *schema.Field {
	return &schema.Field{Name: name, Createable: true, Nillable: true, Custom: isCustom(name)}
}

// Defaulted is a createable, non-nillable field the org fills in when omitted.
func Defaulted(name string) *schema.Field {
	return &schema.Field{Name: name, Createable: true, HasDefaultValue: true, Custom: isCustom(name)}
}

// ReadOnly is a non-createable field such as a formula or audit field.
func ReadOnly(name string) *schema.Field {
	return &schema.Field{Name: name, Nillable: true, Custom: isCustom(name)}
}

// MandatoryLookup is a required reference field.
func MandatoryLookup(name string, targets ...string) *schema.Field {
	f := Required(name)
	f.ReferenceTo = targets

	return f
}

// OptionalLookup is a nillable reference field.
func OptionalLookup(name string, targets ...string) *schema.Field {
	f := Optional(name)
	f.ReferenceTo = targets

	return f
}

// Object builds an uncounted object; custom is inferred from the __c suffix.
func Object(name string, fields ...*schema.Field) *schema.Object {
	return schema.NewObject(name, isCustom(name), nil, fields...)
}

// Counted builds an object with a row count.
func Counted(name string, count int, fields ...*schema.Field) *schema.Object {
	return schema.NewObject(name, isCustom(name), schema.CountOf(count), fields...)
}

// Org is a small standard org: Account, Contact, Opportunity, Lead, Event,
// RecordType and User with their usual relationships.
func Org() *schema.Snapshot {
	return schema.MustSnapshot(
		Object("Account",
			ReadOnly("Id"),
			Required("Name"),
			Optional("Description"),
			OptionalLookup("ParentId", "Account"),
			OptionalLookup("RecordTypeId", "RecordType"),
			&schema.Field{Name: "OwnerId", Createable: true, HasDefaultValue: true, ReferenceTo: []string{"Group", "User"}},
		),
		Object("Contact",
			ReadOnly("Id"),
			Required("LastName"),
			Optional("Email"),
			MandatoryLookup("AccountId", "Account"),
			OptionalLookup("ReportsToId", "Contact"),
		),
		Object("Opportunity",
			ReadOnly("Id"),
			Required("Name"),
			Required("StageName"),
			Required("CloseDate"),
			OptionalLookup("AccountId", "Account"),
		),
		Object("Lead",
			ReadOnly("Id"),
			Required("LastName"),
			Required("Company"),
		),
		Object("Event",
			ReadOnly("Id"),
			Required("Subject"),
			OptionalLookup("WhoId", "Contact", "Lead"),
			OptionalLookup("WhatId", "Account", "Opportunity"),
		),
		Object("RecordType", ReadOnly("Id"), ReadOnly("DeveloperName")),
		Object("User", ReadOnly("Id"), Required("Username")),
	)
}

func isCustom(name string) bool {
	return len(name) > 3 && name[len(name)-3:] == "__c"
}
