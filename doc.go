// Package rebalance computes the trades that move a portfolio toward a
// target allocation.
//
// Given the current holdings, their prices, a target percentage per ticker
// and some new cash, the package answers three questions:
//   - Distribution: how is the portfolio split today? See ComputeDistribution.
//   - Plan: which orders reach the target at best, given that some
//     instruments only trade in whole units? See Normalize and Optimize.
//   - Projection: what does the portfolio look like once the plan is
//     executed, and where does the money go? See Project and SummarizeFlows.
//
// Every function is a pure computation over its arguments: nothing is
// fetched, stored or shared between calls. Prices must be resolved by the
// caller beforehand, see the eodhd package for a provider.
//
// Per-ticker values use float64, sub-cent drift is tolerated there. Whole-unit
// rounding errors are accumulated exactly in Plan.Leftover, and allocation
// sums are compared to 100% in exact decimal arithmetic.
//
// This package serves as the foundational logic for the `rebal` command-line
// tool and its HTTP API.
package rebalance
