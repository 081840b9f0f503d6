package domain

// STKPushRequest is an M-PESA payment prompt sent to the payer's phone.
type STKPushRequest struct {
	Phone     string
	Amount    float64
	Reference string
}

// STKPushResponse mirrors the provider's acknowledgement of an STK push.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// CallbackItem is one name/value pair of the callback metadata.
type CallbackItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value,omitempty"`
}

// STKCallback is the result the provider posts once the payer responds.
type STKCallback struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResultCode        *int   `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
	CallbackMetadata  *struct {
		Item []CallbackItem `json:"Item"`
	} `json:"CallbackMetadata,omitempty"`
}

// Succeeded reports whether the payer completed the transaction. A callback
// without a result code is a failure.
func (c STKCallback) Succeeded() bool {
	return c.ResultCode != nil && *c.ResultCode == 0
}

// Notification is an outbound SMS.
type Notification struct {
	To      string
	Message string
}
