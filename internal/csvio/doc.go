// Package csvio imports and exports contacts as CSV.
//
// Import is tolerant of real-world prospect lists: header names are resolved
// through an alias table, a UTF-8 BOM is stripped, and a headerless file is
// detected by sniffing an email-shaped column in the first row. Rows are
// upserted by email so re-importing a list is safe.
//
// Files are read from the local filesystem or, with an s3:// path, from S3.
package csvio
