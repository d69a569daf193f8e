package domain

import "testing"

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range OrderStatuses() {
		if !IsValidOrderStatus(status) {
			t.Errorf("expected %s to be valid", status)
		}
	}
	for _, status := range []OrderStatus{"", "Pending", "confirmed", "shipped "} {
		if IsValidOrderStatus(status) {
			t.Errorf("expected %q to be invalid", status)
		}
	}
}

func TestIsValidPaymentEnums(t *testing.T) {
	if !IsValidPaymentStatus(PaymentStatusCompleted) {
		t.Error("completed should be a valid payment status")
	}
	if IsValidPaymentStatus("paid") {
		t.Error("paid should not be a valid payment status")
	}
	if !IsValidPaymentMethod(PaymentMethodCOD) {
		t.Error("cod should be a valid payment method")
	}
	if IsValidPaymentMethod("cash") {
		t.Error("cash should not be a valid payment method")
	}
}

func TestStatusLabel(t *testing.T) {
	cases := map[OrderStatus]string{
		OrderStatusPending:   "Pending",
		OrderStatusShipped:   "Shipped",
		OrderStatusRefunded:  "Refunded",
		OrderStatus("weird"): "weird",
		OrderStatus(""):      "",
	}
	for status, want := range cases {
		if got := StatusLabel(status); got != want {
			t.Errorf("StatusLabel(%q) = %q, want %q", status, got, want)
		}
	}
}
