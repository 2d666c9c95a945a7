package enums

import "fmt"

// OrderStatus is the order lifecycle state. Pending, Completed and
// Canceled form the transition state machine; Returned sits outside it and
// is only reachable through the manual correction path.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCanceled  OrderStatus = "Canceled"
	OrderStatusReturned  OrderStatus = "Returned"
)

var transitionTargets = []OrderStatus{
	OrderStatusPending,
	OrderStatusCompleted,
	OrderStatusCanceled,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// ParseOrderStatus converts raw input into a transition-table status.
// Returned is deliberately rejected here: it is not a valid target for the
// regular status update operation.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range transitionTargets {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
