// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Two implementations exist: a PostgreSQL store in internal/platform/postgres
// and an embedded bbolt store in internal/platform/bolt.
package store
