// Package models defines the core domain records for the bill splitter.
//
// # Models
//
//   - Bill: a shared-expense session owning its participants and expenses
//   - Participant: one person on a bill, with a role tag for the UI layer
//   - Expense: one payment made by a participant, divided by a split rule
//   - Split: one participant's computed share of one expense
//   - Transfer: a suggested settlement payment between two participants
//
// # Design Principles
//
//  1. All monetary values are money.Amount (integer minor units) so sums
//     are exact; float64 never holds an amount.
//  2. Records reference each other by ID strings, never pointers, to avoid
//     circular references and make snapshots trivially copyable.
//  3. Splits are resolved when an expense is created or edited and stored
//     alongside it; balances and settlement plans are always recomputed,
//     never stored.
package models
