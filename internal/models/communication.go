package models

// Communication channels and delivery statuses.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelCall  = "call"
	ChannelNote  = "note"

	DeliverySent      = "sent"
	DeliveryDelivered = "delivered"
	DeliveryOpened    = "opened"
	DeliveryClicked   = "clicked"
	DeliveryFailed    = "failed"
	DeliveryBounced   = "bounced"
)

// CommunicationEntry records one outbound event on an application's timeline.
type CommunicationEntry struct {
	ID             string  `json:"id"`
	ApplicationID  string  `json:"application_id"`
	Channel        string  `json:"channel"`
	Subject        string  `json:"subject,omitempty"`
	Body           string  `json:"body,omitempty"`
	DeliveryStatus string  `json:"delivery_status"`
	TemplateID     *string `json:"template_id"`
	CreatedAt      string  `json:"created_at"`
}

// Template is a reusable communication template.
type Template struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Channel   string `json:"channel"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// ComplianceRecord is one compliance check or report row.
type ComplianceRecord struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Status         string `json:"status"`
	Subject        string `json:"subject"`
	AcknowledgedBy string `json:"acknowledged_by,omitempty"`
	CreatedAt      string `json:"created_at"`
}
