// Package postgres provides the PostgreSQL implementation of the
// store.FlashcardStore interface. It handles the details of database
// connections, schema migrations, query execution, and data mapping between
// domain entities and database records.
//
// Flashcard sets are stored one row per set with the ordered cards in a JSONB
// column, so a set is always written and read as a single unit.
package postgres
