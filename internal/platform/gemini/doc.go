// Package gemini provides an implementation of the generation.Provider interface
// backed by Google's Gemini API.
//
// This package is an infrastructure adapter: it translates generation.Request
// values into genai GenerateContent calls and classifies the outcome into the
// generation package's upstream error taxonomy. It never retries; callers get
// exactly one outbound call per Complete.
package gemini
