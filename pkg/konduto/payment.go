package konduto

type PaymentType string

const (
	PaymentTypeCredit   PaymentType = "credit"
	PaymentTypeDebit    PaymentType = "debit"
	PaymentTypeBoleto   PaymentType = "boleto"
	PaymentTypeTransfer PaymentType = "transfer"
	PaymentTypeVoucher  PaymentType = "voucher"
)

type PaymentStatus string

const (
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusDeclined PaymentStatus = "declined"
	PaymentStatusPending  PaymentStatus = "pending"
)

func (s PaymentStatus) valid() bool {
	switch s {
	case PaymentStatusApproved, PaymentStatusDeclined, PaymentStatusPending:
		return true
	}
	return false
}

// Payment is one means of payment used for the order.
// Status is required for credit card payments (see paymentStructLevel).
type Payment struct {
	Type           PaymentType   `json:"type,omitempty" validate:"required,oneof=credit debit boleto transfer voucher"`
	Status         PaymentStatus `json:"status,omitempty"`
	Bin            string        `json:"bin,omitempty" validate:"omitempty,len=6,number"`
	Last4          string        `json:"last4,omitempty" validate:"omitempty,len=4,number"`
	ExpirationDate string        `json:"expiration_date,omitempty" validate:"omitempty,len=6,number"` // MMYYYY
	Amount         *float64      `json:"amount,omitempty" validate:"omitempty,finite,gte=0"`
}

func (p *Payment) Validate() error {
	if p == nil {
		return &InvalidEntityError{Entity: "payment", Message: "payment is required"}
	}
	return check("payment", p)
}
