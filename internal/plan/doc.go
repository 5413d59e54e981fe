// Package plan computes the closure and load order of resolved declarations.
//
// Planning pipeline:
//  1. Closure: every object a mandatory reference points at is pulled in
//     with a minimal declaration (its required fields), to a fixed point.
//     Targets excluded by policy or missing from the schema are never pulled
//     in; the referencing field is dropped instead.
//  2. Ordering, in rounds. A strict round places every object whose pending
//     edges all point at placed objects. When that stalls, a lenient round
//     counts mandatory edges only and breaks the optional edges it crosses.
//     When that stalls too, a Chooser picks one object from a mandatory
//     cycle; all its pending edges are broken and it is placed.
//  3. Every broken edge is reported for the mapping synthesizer to emit as a
//     deferred update.
//
// Each round places at least one object, so planning terminates within as
// many rounds as there are objects.
package plan
