package models

import dErrors "rishta/pkg/domain-errors"

// IntentRequest is the body of POST /create-payment-intent. Amount is in the
// currency's minor units.
type IntentRequest struct {
	Amount int64 `json:"amount"`
}

func (r *IntentRequest) Validate() error {
	if r.Amount <= 0 {
		return dErrors.New(dErrors.CodeBadRequest, "amount must be a positive integer")
	}
	return nil
}

// Intent is a created payment intent. Only the client secret leaves the
// server.
type Intent struct {
	ID           string `json:"-"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"-"`
	Currency     string `json:"-"`
}
