package konduto

// Item is a shopping cart line.
type Item struct {
	SKU         string   `json:"sku,omitempty" validate:"max=100"`
	ProductCode string   `json:"product_code,omitempty" validate:"max=100"`
	Category    int      `json:"category,omitempty" validate:"omitempty,gte=100,lte=9999"`
	Name        string   `json:"name,omitempty" validate:"max=100"`
	Description string   `json:"description,omitempty" validate:"max=100"`
	UnitCost    *float64 `json:"unit_cost,omitempty" validate:"omitempty,finite,gte=0"`
	Quantity    int      `json:"quantity,omitempty" validate:"gte=0"`
	Discount    *float64 `json:"discount,omitempty" validate:"omitempty,finite,gte=0"`
	CreatedAt   Date     `json:"created_at,omitzero"`
}

func (i *Item) Validate() error {
	if i == nil {
		return &InvalidEntityError{Entity: "item", Message: "item is required"}
	}
	return check("item", i)
}

// ShoppingCart is the retail variant of an order's Purchase.
type ShoppingCart []Item

func (ShoppingCart) purchase() {}

// Total sums unit cost times quantity minus discount over every line.
func (sc ShoppingCart) Total() float64 {
	var total float64
	for _, item := range sc {
		if item.UnitCost != nil {
			total += *item.UnitCost * float64(item.Quantity)
		}
		if item.Discount != nil {
			total -= *item.Discount
		}
	}
	return total
}
