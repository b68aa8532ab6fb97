// Package service contains the application use cases. It orchestrates domain
// objects from internal/domain and internal/domain/study with the
// repositories defined in internal/store.
//
// Key components:
//
// 1. Study sessions:
//   - QuizService and ReviewService keep live sessions in an in-memory Registry
//   - CardLoader resolves a scope to a candidate pool through the repositories
//   - Card fetches run outside the session lock and are applied with a load
//     ticket, so a fetch superseded by a retry or scope change is dropped
//
// 2. Content:
//   - DeckService serves the public library
//   - StudySetService turns a sentence into a stored deck via a generation.Generator
//
// 3. Accounts:
//   - UserService registers and authenticates users for the JWT layer
//
// Services receive dependencies through constructor injection and never
// depend on infrastructure packages directly.
package service
