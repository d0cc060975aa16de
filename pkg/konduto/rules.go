package konduto

// TriggeredRule is a merchant rule that fired during analysis.
type TriggeredRule struct {
	Name     string         `json:"name,omitempty" validate:"required,max=100"`
	Decision Recommendation `json:"decision,omitempty" validate:"omitempty,oneof=approve decline review"`
}

func (r *TriggeredRule) Validate() error {
	if r == nil {
		return &InvalidEntityError{Entity: "triggered rule", Message: "triggered rule is required"}
	}
	return check("triggered rule", r)
}

// TriggeredDecision is a decision list entry (allow/block list) that matched the order.
type TriggeredDecision struct {
	Type     string         `json:"type,omitempty" validate:"required,max=100"`    // e.g. "email", "ip", "tax_id"
	Trigger  string         `json:"trigger,omitempty" validate:"required,max=255"` // the matched value
	Decision Recommendation `json:"decision,omitempty" validate:"required,oneof=approve decline review"`
}

func (d *TriggeredDecision) Validate() error {
	if d == nil {
		return &InvalidEntityError{Entity: "triggered decision", Message: "triggered decision is required"}
	}
	return check("triggered decision", d)
}
