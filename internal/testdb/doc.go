//go:build integration

// Package testdb provides utilities for database integration tests.
//
// It implements a transaction-based isolation pattern: each test runs in its
// own transaction, which is rolled back when the test completes, so tests can
// run in parallel without seeing each other's rows.
//
// Tests are skipped unless DATABASE_URL (or CARDCHAT_DATABASE_URL) points at a
// PostgreSQL server. The schema is brought up to date once per test binary
// using the application's embedded migrations.
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s := postgres.NewPostgresFlashcardStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
