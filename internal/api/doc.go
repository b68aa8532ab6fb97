// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts the study, deck, study-set and account
// services to HTTP, mapping service errors to status codes and sanitized
// messages.
package api
