// Package homefin keeps a household's finances in one plain JSON file:
// a chronological transaction ledger over typed accounts and
// categories, with engines derived from it rather than stored — date
// balances, Price-method loan amortization, the bills-of-the-month
// worksheet, bank statement review, and accrual reports (income
// statement, balance sheet, health ratios).
//
// The Ledger is the single mutation boundary: operations validate
// eagerly, keep the transfer pair invariant, and bump a version
// counter that Snapshot uses to memoize derived values. Everything
// else is a pure query and never fails on empty or unconfigured state.
package homefin
