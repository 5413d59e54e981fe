// Package expand resolves declarations against a schema catalog.
//
// Group object selectors become one declaration per matching object, group
// field selectors become literal field names, and every field required on
// create is unioned in so each resolved declaration can be loaded on its own.
// When several declarations cover the same object the most specific one wins:
// a literal name beats OBJECTS(CUSTOM) and OBJECTS(STANDARD), which beat
// OBJECTS(POPULATED), which beats OBJECTS(ALL).
//
// Expanding the declarations returned by Resolved.ToDeclaration yields the
// same resolved set again.
package expand
