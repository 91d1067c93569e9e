// Package template loads email templates from YAML files and renders them
// with Liquid. Rendering is lax: a missing variable renders empty rather
// than failing the send. Validate gives strict parse errors for previews.
package template
