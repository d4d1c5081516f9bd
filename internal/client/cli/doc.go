// Package cli provides the interactive gophshop storefront client.
//
// It wires configuration, the local session database, the API client and
// the session manager into a REPL. Commands are grouped by who may run them:
// browsing the catalog needs no account, the cart and orders need a signed-in
// user, and catalog management needs an administrator. Gated commands are
// refused locally without a server round trip.
//
// Lists (products, orders, users, reviews) are backed by listsync
// synchronizers, so paging and filtering always show the latest query.
// When the server rejects the session the user is told once, and the lists
// that belong to the account are dropped before the next command.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
