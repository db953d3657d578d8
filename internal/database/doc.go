// Package database provides the SQLite run history of sitescrape.
//
// Every finished crawl is stored as one row in crawl_runs, and every stored
// page of that crawl as one row in crawl_pages together with a SHA3-256
// fingerprint of its extracted text. The history command uses the
// fingerprints to show which pages appeared, disappeared or changed
// between two runs of the same site.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
