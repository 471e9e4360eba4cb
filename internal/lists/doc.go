// Package lists retrieves remote prefix lists over HTTP.
//
// It implements the source collaborator side of the pipeline: given a
// configured source, obtain its raw text body or a fetch error. Fetch errors
// are always fatal for the run; the rest of the pipeline never sees a
// partially fetched set of sources.
package lists
