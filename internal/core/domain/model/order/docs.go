// Package order implements the Order aggregate of the fulfillment core.
//
// The package includes:
//   - Order: the aggregate root holding items, pricing, picking and the rider leg summary
//   - Status: the overall order state machine, shared by the picking and rider tracks
//   - Pricing: the derived price breakdown, recomputed before every save
//   - PickingInfo: the in-store picking sub-document with its own status and per-item outcomes
//
// Key business rules:
//   - total = subtotal + deliveryFee + tax - discount, subtotal = sum(price * quantity)
//   - only the assigned picker may change picking state
//   - picker steps move the overall status only while the order is on the picking track
//   - a rider can be assigned to a confirmed order, or manually to a ready_for_pickup one
//   - cancellation is allowed until the rider picks the goods up
package order
