// Package models defines the records of the split ledger.
//
// People are identified by their email address. There is no separate person
// entity: expenses, settlements and groups reference participants by key.
//
// # Records
//
//   - Expense: one shared cost, split among participants by a SplitMethod
//   - Settlement: a direct payment from one person to another
//   - Group: a named set of members used to scope expenses and settlements
//   - Friend: a contact of the local user
//   - User: the single implicit local user
//
// Balances and payment plans are derived from expenses and settlements on
// every read and are never stored. See the calculator package.
//
// # Relationships
//
// Records reference each other by ID strings (GroupID) rather than pointers.
// A GroupID is a weak reference: deleting a group leaves its expenses intact.
package models
