package domain

import (
	"errors"
	"testing"
)

func TestOrderCancelFromPending(t *testing.T) {
	o := Order{OrderID: "o1", OrderStatus: StatusPending}
	if err := o.Cancel(); err != nil {
		t.Fatalf("cancel from pending: %v", err)
	}
	if o.OrderStatus != StatusCancelled {
		t.Fatalf("expected Cancelled, got %s", o.OrderStatus)
	}
}

func TestOrderCancelTwiceFails(t *testing.T) {
	o := Order{OrderID: "o1", OrderStatus: StatusPending}
	if err := o.Cancel(); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if err := o.Cancel(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on second cancel, got %v", err)
	}
}

func TestOrderCancelFromNonPending(t *testing.T) {
	for _, status := range []string{"Shipped", StatusRefunded, StatusCancelled} {
		o := Order{OrderStatus: status}
		if err := o.Cancel(); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("status %s: expected ErrInvalidTransition, got %v", status, err)
		}
	}
}

func TestOrderAdminSetStatusIsUnconstrained(t *testing.T) {
	o := Order{OrderStatus: StatusCancelled}
	o.SetStatus("Delivered")
	if o.OrderStatus != "Delivered" {
		t.Fatalf("expected Delivered, got %s", o.OrderStatus)
	}
}

func TestOrderRefund(t *testing.T) {
	o := Order{OrderStatus: StatusPending}
	o.Refund()
	if o.OrderStatus != StatusRefunded {
		t.Fatalf("expected Refunded, got %s", o.OrderStatus)
	}
}
