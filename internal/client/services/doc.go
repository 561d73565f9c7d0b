// Package services contains the application services behind the CLI
// commands: session handling, the book catalog, comments, purchases, order
// history and cover images.
//
// Services talk to the bookstore through client.API and keep local state in
// the metadata store and the order ledger. A client.ErrUnauthenticated
// returned by any service means the session has ended and the user must log
// in again.
package services

import "time"

// nowFn is the clock used for ratings and orders.
var nowFn = time.Now
