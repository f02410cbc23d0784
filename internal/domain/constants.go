package domain

const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusViewed  = "viewed"
	InvoiceStatusPartial = "partial"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusVoid    = "void"
)

const (
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusRefunded   = "refunded"
)

const (
	ChannelOnline   = "online"
	ChannelInPerson = "in_person"
	ChannelPortal   = "portal"
)

const (
	MethodCard         = "card"
	MethodBankTransfer = "bank_transfer"
	MethodCash         = "cash"
	MethodCheck        = "check"
)

const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

const DefaultCurrency = "USD"
