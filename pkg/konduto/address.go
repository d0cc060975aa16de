package konduto

// Address is used for both billing and shipping.
type Address struct {
	Name     string `json:"name,omitempty" validate:"max=100"`
	Address1 string `json:"address1,omitempty" validate:"max=255"`
	Address2 string `json:"address2,omitempty" validate:"max=255"`
	City     string `json:"city,omitempty" validate:"max=100"`
	State    string `json:"state,omitempty" validate:"max=100"`
	Zip      string `json:"zip,omitempty" validate:"max=100"`
	Country  string `json:"country,omitempty" validate:"omitempty,len=2,alpha"`
}

func (a *Address) Validate() error {
	if a == nil {
		return &InvalidEntityError{Entity: "address", Message: "address is required"}
	}
	return check("address", a)
}
