package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusShipped   OrderStatus = "Shipped"
	StatusCompleted OrderStatus = "Completed"
)

// Statuses lists the canonical statuses in lifecycle order.
var Statuses = []OrderStatus{StatusPending, StatusShipped, StatusCompleted}

var (
	// ErrUnknownStatus is returned when a status string is not recognised.
	ErrUnknownStatus = errors.New("unknown order status")

	// ErrOrderLocked is returned when a non-pending order is modified.
	ErrOrderLocked = errors.New("only pending orders can be modified")

	// ErrInvalidTransition is returned for backward or no-op status changes.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ParseStatus normalizes s case-insensitively into a canonical status.
func ParseStatus(s string) (OrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "shipped":
		return StatusShipped, nil
	case "completed":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Canonical returns the canonical spelling of s and whether s is recognised.
func (s OrderStatus) Canonical() (OrderStatus, bool) {
	c, err := ParseStatus(string(s))
	return c, err == nil
}

// IsPending reports whether s is pending, ignoring case.
func (s OrderStatus) IsPending() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(StatusPending))
}

func (s OrderStatus) rank() int {
	c, ok := s.Canonical()
	if !ok {
		return -1
	}
	for i, st := range Statuses {
		if st == c {
			return i
		}
	}
	return -1
}

// UnmarshalJSON accepts null as the empty status.
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = ""
		return nil
	}
	*s = OrderStatus(*raw)
	return nil
}

// Modifiable reports whether the order may be edited, re-statused or deleted.
func (o Order) Modifiable() bool {
	return o.Status.IsPending()
}

// CheckModifiable returns ErrOrderLocked unless the order is pending.
func (o Order) CheckModifiable() error {
	if !o.Modifiable() {
		return fmt.Errorf("order %d is %s: %w", o.ID, o.Status, ErrOrderLocked)
	}
	return nil
}

// ValidateTransition checks that moving from -> to goes strictly forward.
func ValidateTransition(from, to OrderStatus) error {
	f, t := from.rank(), to.rank()
	if t < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if f < 0 || t <= f {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// CheckStatusChange combines the pending guard with the forward-only rule.
func (o Order) CheckStatusChange(to OrderStatus) error {
	if err := o.CheckModifiable(); err != nil {
		return err
	}
	return ValidateTransition(o.Status, to)
}
