// Package delivery implements the Delivery aggregate: the rider transport leg
// of an order, from the vendor's store to the customer.
//
// Status machine:
//
//	assigned -> accepted -> picked_up -> in_transit -> delivered
//	assigned -> rejected
//
// Only the rider holding the delivery may move it. Each step appends an entry
// to the timeline, and issue reports and reassignments add markers without
// changing the status. Completion requires proof with at least one photo.
package delivery
