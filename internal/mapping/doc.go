// Package mapping turns a plan into the mapping artifact replayed by the
// bulk-transfer executor, and reads and writes that artifact as YAML.
//
// # Artifact Overview
//
// The artifact is an ordered map of step name to step descriptor. Steps run
// in document order:
//
//	Insert Account:
//	  sf_object: Account
//	  table: Account
//	  action: insert
//	  fields:
//	    - Name
//	  lookups:
//	    ParentId:
//	      table: Account
//	      key_field: ParentId
//	  filters:
//	    - Name != 'Sample Account for Entitlements'
//	Upsert Contact:
//	  sf_object: Contact
//	  table: Contact
//	  action: upsert
//	  update_key: External_Id__c
//	  fields:
//	    - External_Id__c
//	    - LastName
//	  lookups:
//	    AccountId:
//	      table: Account
//	      key_field: AccountId
//	Update Account.Primary_Contact__c:
//	  sf_object: Account
//	  table: Account
//	  action: update
//	  fields:
//	    - Id
//	  lookups:
//	    Primary_Contact__c:
//	      table: Contact
//	      key_field: Primary_Contact__c
//	      after: Upsert Contact
//
// A lookup table is a single name, or a list for polymorphic fields.
// Record-type fields are translated through a name to id side table
// instead of a lookup:
//
//	  record_type:
//	    field: RecordTypeId
//	    table: Account_rt_mapping
//	    key_field: DeveloperName
//
// Step names depend only on action, object and field, so the same plan
// always serializes to the same bytes.
package mapping
