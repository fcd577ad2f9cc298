// Package commerce contains the Commerce bounded context: the tenant-scoped
// copies of a store's catalog, customers and orders.
//
// Key concepts:
//   - Tenant: an isolated store; every other entity belongs to exactly one tenant
//   - Product, Customer, Order: local rows keyed by (tenant, remote identifier)
//
// Rows are only ever written by ingestion, always as an upsert on the remote
// identifier, so re-ingesting the same remote record updates instead of duplicating.
package commerce
