// Package cli provides the interactive bookstore command-line client.
//
// App wires configuration, the local SQLite database, the REST client and
// the services, then runs a REPL (see runREPL) until the user exits. A
// session stored by a previous run is resumed on start.
//
// Anyone can signup and login. Signed-in users browse and search the
// catalog, view book details, add and edit their own books, rate, comment,
// buy and review their order history. Administrators do not buy; they see
// the inventory and sales report and adjust stock.
//
// When a command fails with client.ErrUnauthenticated the stored session is
// dropped and the user is asked to log in again.
package cli
