package confirm_payment

// статусы событий платёжного провайдера
const (
	eventPaid   = "paid"
	eventFailed = "failed"
)

// PaymentWebhookRequest HTTP request model
type PaymentWebhookRequest struct {
	AppointmentID int64  `json:"appointmentId"`
	Event         string `json:"event"` // "paid" или "failed"
}

// PaymentWebhookResponse HTTP response model
type PaymentWebhookResponse struct {
	Status string `json:"status"`
}
