// Package rider implements the rider aggregate: the delivery person who
// picks up and returns orders. A rider carries an activity flag, an admin
// verification state, an optional last-known location with a freshness
// classification, and the set of orders currently assigned to them.
package rider
