package konduto

// Customer is the buyer placing the order. ID, Name and Email are required.
type Customer struct {
	ID        string `json:"id,omitempty" validate:"required,max=100"`
	Name      string `json:"name,omitempty" validate:"required,max=100"`
	Email     string `json:"email,omitempty" validate:"required,email,max=100"`
	TaxID     string `json:"tax_id,omitempty" validate:"max=100"`
	Phone1    string `json:"phone1,omitempty" validate:"max=100"`
	Phone2    string `json:"phone2,omitempty" validate:"max=100"`
	New       bool   `json:"new,omitempty"`
	VIP       bool   `json:"vip,omitempty"`
	DOB       Date   `json:"dob,omitzero"`
	CreatedAt Date   `json:"created_at,omitzero"`
}

func (c *Customer) Validate() error {
	if c == nil {
		return &InvalidEntityError{Entity: "customer", Message: "customer is required"}
	}
	return check("customer", c)
}
