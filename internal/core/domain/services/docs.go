// Package services provides domain services that orchestrate business
// operations across multiple domain entities. It implements logic that does
// not naturally belong to a single aggregate root.
//
// The package includes:
//   - RiderMatcher: a domain service ranking riders by distance to a pickup
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
