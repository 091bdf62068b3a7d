// Package messagetypes provides the catalog of rule engine message types used
// as the tag editor's candidate pool, search helpers, and a small net/http
// handler that returns JSON suggestions for chip inputs.
//
// The default handler responds to GET and HEAD requests and supports query and
// limit parameters to filter results. The backing data is loaded from the
// embedded catalog under data/message_types.yaml.
package messagetypes
