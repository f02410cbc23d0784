package ws

// ViewNotifier pushes stale-view notices over the hub. It satisfies the
// service layer's ViewInvalidator; delivery is fire-and-forget.
type ViewNotifier struct {
	hub *Hub
}

func NewViewNotifier(hub *Hub) *ViewNotifier {
	return &ViewNotifier{hub: hub}
}

func (n *ViewNotifier) InvoiceChanged(companyID, invoiceID uint) {
	n.hub.BroadcastToCompany(companyID, map[string]interface{}{
		"type":       "view.invalidate",
		"views":      []string{"invoice", "finance_summary"},
		"invoice_id": invoiceID,
	})
}

func (n *ViewNotifier) PaymentChanged(companyID, paymentID uint) {
	n.hub.BroadcastToCompany(companyID, map[string]interface{}{
		"type":       "view.invalidate",
		"views":      []string{"payment", "finance_summary"},
		"payment_id": paymentID,
	})
}
