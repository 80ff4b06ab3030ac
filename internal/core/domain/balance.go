package domain

import "time"

// Balance is the prepaid running total for one user. At most one record
// exists per user; it is created lazily at 0 on first access.
type Balance struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Amount    float64   `json:"amount" bson:"amount"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Metered service tags accepted by the deduction flow.
const (
	ServiceRC      = "rc"
	ServiceChassis = "chassis"
)

// PriceTable maps a service tag to its fixed unit price.
type PriceTable map[string]float64

// PriceFor resolves the unit price for a service tag.
func (p PriceTable) PriceFor(service string) (float64, bool) {
	price, ok := p[service]
	return price, ok
}
