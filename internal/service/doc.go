// Package service contains the application use cases: saving and reading
// flashcard sets, and answering chat utterances.
//
// It orchestrates interactions between domain objects, the completion client
// (internal/generation) and the flashcard store port (internal/store), and
// never depends on a specific infrastructure implementation.
//
// Key components:
//
// 1. FlashcardService:
//   - Builds sets from caller-supplied pairs and persists them
//   - Parses caller-supplied identifiers before they reach the store
//
// 2. ChatService:
//   - Classifies each utterance as a flashcard request or a plain question
//   - Generates and extracts flashcards without persisting them
//   - Answers plain questions using the re-submitted conversation history
//
// 3. Error Handling:
//   - Store and domain sentinels pass through wrapped, so the API layer can
//     map them with errors.Is
//   - Chat failures are returned as *ChatError, whose Message is safe to show
//     to the user
package service
