package payments

import "time"

// Method enumerates accepted payment methods.
type Method string

const (
	MethodEfectivo      Method = "EFECTIVO"
	MethodTarjeta       Method = "TARJETA"
	MethodTransferencia Method = "TRANSFERENCIA"
)

// Payment is one payment against a service order. Many payments may exist
// per order; the order's paid amount and payment status are recomputed on
// every registration.
type Payment struct {
	ID            int64     `json:"id"`
	OrderID       int64     `json:"order_id"`
	ReceiptNumber string    `json:"receipt_number"`
	Amount        float64   `json:"amount"`
	Method        Method    `json:"method"`
	PaidAt        time.Time `json:"paid_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// RegisterPaymentRequest records a new payment.
type RegisterPaymentRequest struct {
	OrderID int64     `json:"order_id" validate:"required,gt=0"`
	Amount  float64   `json:"amount" validate:"required,gt=0"`
	Method  Method    `json:"method" validate:"required,oneof=EFECTIVO TARJETA TRANSFERENCIA"`
	PaidAt  time.Time `json:"paid_at"`
}
