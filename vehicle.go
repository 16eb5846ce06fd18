package homefin

// Vehicle is a fleet asset carried on the balance sheet at its latest
// market reference value (FIPE-style table price), not at cost.
type Vehicle struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	PurchasedOn    Date   `json:"purchasedOn,omitzero"`
	PurchaseTxID   string `json:"purchaseTxId,omitempty"`
	ReferenceValue Money  `json:"referenceValue,omitzero"`
	SoldOn         Date   `json:"soldOn,omitzero"`
}

// Validate checks the vehicle's own fields.
func (v Vehicle) Validate() error {
	if v.ID == "" {
		return validationf("vehicle id is missing")
	}
	if v.Label == "" {
		return validationf("vehicle %s label is missing", v.ID)
	}
	if v.ReferenceValue.IsNegative() {
		return validationf("vehicle %s reference value must be non-negative, got %s", v.ID, v.ReferenceValue)
	}
	return nil
}

// Owned reports whether the vehicle is still in the fleet on the date.
func (v Vehicle) Owned(on Date) bool {
	if !v.PurchasedOn.IsZero() && on.Before(v.PurchasedOn) {
		return false
	}
	return v.SoldOn.IsZero() || on.Before(v.SoldOn)
}
