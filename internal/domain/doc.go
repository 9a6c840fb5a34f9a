// Package domain contains the core business entities of the application:
// flashcard pairs, flashcard sets and chat turns, together with the pure
// builder that turns validated pairs into a persistence-ready set.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
