// Package integration contains the Integration bounded context.
// This context manages pulling data from a tenant's external commerce platform.
//
// Key concepts:
//   - CommercePlatform: Port interface for reading products, customers and orders from a store
//   - StoreCredentials: Per-tenant store domain and access token
//   - Page / Paginate: One bounded page of remote records and the lazy sequence over all pages
//   - IngestResult: Outcome of one fetch-transform-upsert pass for one entity kind
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
