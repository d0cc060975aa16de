package konduto

// Seller identifies the marketplace seller fulfilling the order.
type Seller struct {
	ID        string `json:"id,omitempty" validate:"required,max=100"`
	Name      string `json:"name,omitempty" validate:"max=100"`
	CreatedAt Date   `json:"created_at,omitzero"`
}

func (s *Seller) Validate() error {
	if s == nil {
		return &InvalidEntityError{Entity: "seller", Message: "seller is required"}
	}
	return check("seller", s)
}
