// Package declare provides the declaration language that says which objects
// and fields to move: parsing from YAML or HCL, the selector tagged union,
// and normalization (defaults merged, duplicates rejected).
//
// # Schema Overview
//
// A YAML declaration file has the following structure:
//
//	version: "1"
//	defaults:
//	  fields: FIELDS(ALL)          # used by declarations without fields
//	  api: smart                   # smart | bulk | rest
//	extract:
//	  OBJECTS(CUSTOM):             # ALL | CUSTOM | STANDARD | POPULATED
//	    fields: FIELDS(REQUIRED)   # ALL | CUSTOM | STANDARD | REQUIRED
//	  Contact:
//	    fields: [LastName, AccountId, FIELDS(CUSTOM)]
//	    where: "LastName != 'Test'"
//	    api: bulk
//	    update_key: External_Id__c
//	  Account: [Name, Description] # shorthand for fields
//
// The HCL form uses one block per object key:
//
//	defaults {
//	  api = "smart"
//	}
//
//	object "Contact" {
//	  fields     = ["LastName", "AccountId", "FIELDS(CUSTOM)"]
//	  where      = "LastName != 'Test'"
//	  update_key = "External_Id__c"
//	}
//
// # Precedence
//
// A literally named object always wins over a group selector matching the
// same object. Among groups, CUSTOM and STANDARD beat POPULATED, which beats
// ALL. Two declarations with the same key are a configuration error.
package declare
