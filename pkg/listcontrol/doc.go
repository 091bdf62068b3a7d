// Package listcontrol implements the shared list-backed form control: an
// adapter between an external value V exchanged with a hosting form and an
// internal ordered collection of items I. Specialisations plug in a Codec that
// decodes external values into items, folds items back into V and reports
// whether the collection is well formed. Every accepted mutation re-encodes
// synchronously and notifies the registered change handler, passing the
// not-present sentinel when the control should not accept its current state.
//
// Controls follow a single cooperative scheduler model and are not safe for
// concurrent mutation. Callers serialise access the same way a UI event loop
// would.
package listcontrol
