package models

import "time"

// Domain events published after commit. Notification and audit sinks consume
// these; publishing is best-effort and never part of the transaction.

type OrderCreatedEvent struct {
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  string    `json:"customer_id"`
	TotalAmount int64     `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	Timestamp   time.Time `json:"timestamp"`
}

type OrderStatusChangedEvent struct {
	EventType      string    `json:"event_type"`
	OrderID        string    `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	StatusType     string    `json:"status_type"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ChangedBy      string    `json:"changed_by"`
	Timestamp      time.Time `json:"timestamp"`
}

type ProductApprovalEvent struct {
	EventType      string    `json:"event_type"`
	ProductID      string    `json:"product_id"`
	ContractorID   string    `json:"contractor_id"`
	ActionType     string    `json:"action_type"`
	ApprovalStatus string    `json:"approval_status"`
	ProductStatus  string    `json:"product_status"`
	Timestamp      time.Time `json:"timestamp"`
}
