package model

import (
	"encoding/json"
	"reflect"
	"time"
)

// Payment is an append-only record of a completed checkout, stored as the
// client submitted it.  ID is a hex ObjectID in the document store and a
// decimal row id in the SQL ledger.  Members of the submitted object that
// Payment does not name are kept in Extra.
type Payment struct {
	ID            string         `json:"_id,omitempty" bson:"-"`
	Email         string         `json:"email" bson:"email"`
	Name          string         `json:"name,omitempty" bson:"name,omitempty"`
	Price         float64        `json:"price" bson:"price"`
	TransactionID string         `json:"transactionId" bson:"transactionId"`
	Package       string         `json:"package,omitempty" bson:"package,omitempty"`
	Status        string         `json:"status,omitempty" bson:"status,omitempty"`
	Date          time.Time      `json:"date" bson:"date"`
	Metadata      map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Extra         map[string]any `json:"-" bson:",inline"`
}

func (p *Payment) UnmarshalJSON(b []byte) error {
	type plain Payment
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	extra, err := extraFields(b, reflect.TypeOf(v))
	if err != nil {
		return err
	}
	v.Extra = extra
	*p = Payment(v)
	return nil
}

func (p Payment) MarshalJSON() ([]byte, error) {
	type plain Payment
	return withExtra(plain(p), p.Extra)
}
