package domain

import "slices"

// orderTransitions maps each status to the statuses directly reachable from
// it. Statuses absent from the map (and unknown inputs) allow no transition.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {OrderStatusRefunded},
	// Cancelled orders may be reopened.
	OrderStatusCancelled: {OrderStatusPending},
	OrderStatusRefunded:  {},
}

// CanTransition reports whether an order may move from current to next.
// Unknown current statuses fail closed. Re-submitting the current status is
// rejected: no status lists itself as a successor.
func CanTransition(current, next OrderStatus) bool {
	allowed, ok := orderTransitions[current]
	if !ok {
		return false
	}
	return slices.Contains(allowed, next)
}

// AllowedTransitions returns the statuses reachable from current, nil for
// unknown or terminal statuses.
func AllowedTransitions(current OrderStatus) []OrderStatus {
	allowed, ok := orderTransitions[current]
	if !ok || len(allowed) == 0 {
		return nil
	}
	return slices.Clone(allowed)
}
