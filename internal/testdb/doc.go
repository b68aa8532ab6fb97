// Package testdb provides helpers for PostgreSQL integration tests.
//
// Tests run only when DATABASE_URL is set. The schema is migrated once per
// test binary with the embedded goose migrations, and each test works inside
// its own transaction that is rolled back when the test ends:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        store := postgres.NewPostgresCardStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
