// Package generation defines the boundary to LLM services that turn a
// sentence in the target language into a study set: a translation, a grammar
// explanation and a handful of vocabulary flashcards.
package generation
