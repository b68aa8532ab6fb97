// Package study implements the study-session engine: sampling distractors,
// building multiple-choice questions, the quiz lifecycle and the flashcard
// review cursor.
//
// Everything here is synchronous and deterministic for a given random Source.
// Fetching cards is the caller's job; results are handed back through
// load tickets so that a fetch started for an old scope cannot overwrite a
// newer session.
package study
