// Package internal documents the site server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, rendering, and routing
// - domain: business logic for posts, projects, comments, and the rest
// - storage: database access and repositories (pgx + Postgres)
// - auth, audit, config, metrics, jsonld: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
