package domain

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
	StatusRejected       OrderStatus = "rejected"
)

// allowedTransitions is the full transition graph. Terminal states map to
// an empty set; self-transitions are never legal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusConfirmed, StatusCancelled, StatusRejected},
	StatusConfirmed:      {StatusPreparing, StatusCancelled, StatusRejected},
	StatusPreparing:      {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
	StatusRejected:       {},
}

func (s OrderStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	targets, ok := allowedTransitions[s]
	return ok && len(targets) == 0
}

// CanTransition reports whether from -> to is a legal move on the graph.
func CanTransition(from, to OrderStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

var statusDescriptions = map[OrderStatus]string{
	StatusPending:        "Order placed and waiting for confirmation",
	StatusConfirmed:      "Restaurant has accepted your order",
	StatusPreparing:      "Your food is being prepared",
	StatusOutForDelivery: "Your order is on the way",
	StatusDelivered:      "Order has been delivered",
	StatusCancelled:      "Order was cancelled",
	StatusRejected:       "Order could not be accepted",
}

// Description returns a human-readable summary for client display.
func (s OrderStatus) Description() string {
	if d, ok := statusDescriptions[s]; ok {
		return d
	}
	return string(s)
}
