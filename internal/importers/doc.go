// Package importers loads bookmark documents written by the exporters
// package back into the repository.
//
// Every document is validated against an embedded JSON schema before any
// bookmark is written, so a malformed file never imports partially:
//
//	pipeline := importers.NewPipeline(repo, log)
//	result, err := pipeline.ImportJSON(ctx, data)
//
// YAML documents are converted to JSON and go through the same schema.
// Records whose place id already exists in the repository are skipped.
package importers
