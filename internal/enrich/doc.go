// Package enrich is the client for the contact enrichment provider.
//
// Lookups run in priority order: LinkedIn URL when present, then
// name + company, then a people search against the company alone.
package enrich
