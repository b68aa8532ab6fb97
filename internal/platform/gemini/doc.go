// Package gemini implements generation.Generator on Google's Gemini API.
//
// The generator renders an embedded prompt template, asks for a JSON reply
// constrained by a response schema, retries transient failures with
// exponential backoff and jitter, and validates the decoded study set before
// returning it.
package gemini
