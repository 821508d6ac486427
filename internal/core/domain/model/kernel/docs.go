// Package kernel holds the value objects shared by every aggregate of the
// fulfillment domain.
//
//   - UUID: identifier of orders, deliveries, riders, pickers, vendors and customers
//   - GeoPoint: a WGS84 coordinate with Haversine distance (Earth radius 6371 km)
//   - Money: an amount in minor currency units with percentage split
//   - Address: a postal address snapshot with optional coordinates
//
// Values are immutable. Constructors validate ranges and return errs types so
// handlers can map them to client errors.
package kernel
