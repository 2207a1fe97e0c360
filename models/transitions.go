package models

// Legal state transitions per status dimension. Illegal transitions are a
// single guarded lookup here, not if-chains in the engines; the maps are the
// source of truth and are tested independently.

var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
}

var paymentTransitions = map[string][]string{
	PaymentStatusPending:  {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusPaid:     {PaymentStatusRefunded},
	PaymentStatusFailed:   {PaymentStatusPending},
	PaymentStatusRefunded: {},
}

var shippingTransitions = map[string][]string{
	ShippingStatusNotShipped: {ShippingStatusPreparing},
	ShippingStatusPreparing:  {ShippingStatusInTransit},
	ShippingStatusInTransit:  {ShippingStatusDelivered},
	ShippingStatusDelivered:  {},
}

var installationTransitions = map[string][]string{
	InstallationStatusNotScheduled: {InstallationStatusScheduled},
	InstallationStatusScheduled:    {InstallationStatusInProgress, InstallationStatusNotScheduled},
	InstallationStatusInProgress:   {InstallationStatusCompleted},
	InstallationStatusCompleted:    {},
}

var transitionsByType = map[string]map[string][]string{
	StatusTypeOrder:        orderTransitions,
	StatusTypePayment:      paymentTransitions,
	StatusTypeShipping:     shippingTransitions,
	StatusTypeInstallation: installationTransitions,
}

// Explicit column allow-list for guarded status updates; the repository never
// interpolates a caller-supplied column name.
var statusColumnsByType = map[string]string{
	StatusTypeOrder:        "status",
	StatusTypePayment:      "payment_status",
	StatusTypeShipping:     "shipping_status",
	StatusTypeInstallation: "installation_status",
}

// ValidStatusType reports whether the status dimension is known.
func ValidStatusType(statusType string) bool {
	_, ok := transitionsByType[statusType]
	return ok
}

// CanTransition reports whether from -> to is legal in the given dimension.
func CanTransition(statusType, from, to string) bool {
	table, ok := transitionsByType[statusType]
	if !ok {
		return false
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether a status has no outgoing transitions.
func IsTerminalStatus(statusType, status string) bool {
	table, ok := transitionsByType[statusType]
	if !ok {
		return false
	}
	next, known := table[status]
	return known && len(next) == 0
}

// StatusColumn maps a status dimension to its orders column.
func StatusColumn(statusType string) (string, bool) {
	col, ok := statusColumnsByType[statusType]
	return col, ok
}

// Approval decisions are legal only from PENDING. Each decision couples the
// product lifecycle status to the new approval status.
var approvalOutcomes = map[string]struct {
	ApprovalStatus string
	ProductStatus  string
}{
	ApprovalActionApprove:        {ApprovalStatusApproved, ProductStatusActive},
	ApprovalActionReject:         {ApprovalStatusRejected, ProductStatusInactive},
	ApprovalActionRequestChanges: {ApprovalStatusChangesRequired, ProductStatusDraft},
}

// ApprovalOutcome returns the target approval status and coupled product
// status for an admin action.
func ApprovalOutcome(action string) (approvalStatus, productStatus string, ok bool) {
	out, ok := approvalOutcomes[action]
	return out.ApprovalStatus, out.ProductStatus, ok
}

// CanSubmitForApproval reports whether a contractor may submit the product.
// Requesting changes returns a product to DRAFT, so a CHANGES_REQUIRED
// approval status is also submittable.
func CanSubmitForApproval(productStatus, approvalStatus string) bool {
	return productStatus == ProductStatusDraft || approvalStatus == ApprovalStatusChangesRequired
}
