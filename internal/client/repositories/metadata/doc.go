// Package metadata stores small named values on the client, in place of the
// browser storage a web storefront would use.
//
// SQLiteRepository keeps them in the metadata table of the local database;
// MemoryRepository is a process-local substitute used by tests and by the
// CLI when no database path is configured.
package metadata
