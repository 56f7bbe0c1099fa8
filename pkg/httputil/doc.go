// Package httputil provides response helpers for the pipeviz HTTP server.
//
// # Overview
//
// Handlers report failures as structured [errors.Error] values. This package
// maps them to HTTP status codes and writes a small JSON body:
//
//	{"error": "unknown example \"foo\" (available: ...)", "code": "NOT_FOUND"}
//
// # Status mapping
//
// [StatusCode] maps validation codes (see [errors.IsValidation]) to 400,
// NOT_FOUND and STAGE_NOT_FOUND to 404, UNSUPPORTED to 501, and everything
// else to 500. Messages of 500 responses are replaced with a generic text so
// that internal details do not leak to clients.
//
// [errors.Error]: github.com/matzehuels/pipeviz/pkg/errors.Error
// [errors.IsValidation]: github.com/matzehuels/pipeviz/pkg/errors.IsValidation
package httputil
