// Package services holds the domain services of the fulfillment core: logic
// that spans the Order, Delivery, Rider and Store aggregates.
//
// The package includes:
//   - RiderScorer: filters eligible riders and ranks them for a store
//   - DeliveryDispatcher: commits a rider to an order, producing a Delivery
//   - EarningsSplitter: splits a delivery fee between rider and platform
//   - EstimateETA: pickup and delivery time estimates from distance and vehicle
package services
