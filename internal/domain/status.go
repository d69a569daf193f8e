package domain

// OrderStatus enumerates the order lifecycle states.
type OrderStatus string

const (
	// OrderStatusPending marks a freshly placed order awaiting confirmation.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing marks an order accepted for fulfilment.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped marks an order handed to the carrier.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered marks an order received by the customer.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled marks an order cancelled before delivery.
	OrderStatusCancelled OrderStatus = "cancelled"
	// OrderStatusRefunded marks a delivered order that was refunded. Terminal.
	OrderStatusRefunded OrderStatus = "refunded"
)

// PaymentStatus enumerates payment settlement states.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// PaymentMethod enumerates the accepted payment instruments.
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetBanking PaymentMethod = "net_banking"
	PaymentMethodWallet     PaymentMethod = "wallet"
	PaymentMethodCOD        PaymentMethod = "cod"
)

var orderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:    {},
	OrderStatusProcessing: {},
	OrderStatusShipped:    {},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
}

var paymentStatuses = map[PaymentStatus]struct{}{
	PaymentStatusPending:   {},
	PaymentStatusCompleted: {},
	PaymentStatusFailed:    {},
	PaymentStatusRefunded:  {},
}

var paymentMethods = map[PaymentMethod]struct{}{
	PaymentMethodCreditCard: {},
	PaymentMethodDebitCard:  {},
	PaymentMethodUPI:        {},
	PaymentMethodNetBanking: {},
	PaymentMethodWallet:     {},
	PaymentMethodCOD:        {},
}

var statusLabels = map[OrderStatus]string{
	OrderStatusPending:    "Pending",
	OrderStatusProcessing: "Processing",
	OrderStatusShipped:    "Shipped",
	OrderStatusDelivered:  "Delivered",
	OrderStatusCancelled:  "Cancelled",
	OrderStatusRefunded:   "Refunded",
}

// IsValidOrderStatus reports whether s is a member of the order status set.
func IsValidOrderStatus(s OrderStatus) bool {
	_, ok := orderStatuses[s]
	return ok
}

// IsValidPaymentStatus reports whether s is a member of the payment status set.
func IsValidPaymentStatus(s PaymentStatus) bool {
	_, ok := paymentStatuses[s]
	return ok
}

// IsValidPaymentMethod reports whether m is a member of the payment method set.
func IsValidPaymentMethod(m PaymentMethod) bool {
	_, ok := paymentMethods[m]
	return ok
}

// StatusLabel returns the human-readable label for a status. Unrecognised
// input falls back to the raw status string.
func StatusLabel(s OrderStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// OrderStatuses returns the full set of valid order statuses.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusRefunded,
	}
}
