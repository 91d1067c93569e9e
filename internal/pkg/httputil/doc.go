// Package httputil holds the JSON response helpers shared by the HTTP
// surfaces (webhook receiver, health endpoints). One envelope for errors,
// one place that sets Content-Type.
package httputil
