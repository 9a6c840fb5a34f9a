// Package generation turns topics and chat utterances into completions from an
// external LLM service, and strictly extracts flashcards from the generated
// text. The Provider interface is the boundary to concrete services (Gemini,
// OpenAI); Client builds the requests and Extract validates the results, so
// the rest of the application never sees raw model output.
package generation
