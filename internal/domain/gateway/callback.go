package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// CallbackEnvelope is the asynchronous result notification the gateway
// posts to the registered callback URL. Delivery is not guaranteed to be
// at-most-once, so consumers must be idempotent.
type CallbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string       `json:"MerchantRequestID"`
			CheckoutRequestID string       `json:"CheckoutRequestID"`
			ResultCode        json.Number  `json:"ResultCode"`
			ResultDesc        string       `json:"ResultDesc"`
			CallbackMetadata  *MetadataSet `json:"CallbackMetadata,omitempty"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// MetadataSet is the name/value item list attached to successful callbacks
type MetadataSet struct {
	Item []MetadataItem `json:"Item"`
}

// MetadataItem is one entry of the callback metadata list
type MetadataItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value,omitempty"`
}

// CallbackResult is the flattened, typed view of a callback envelope
type CallbackResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        string
	ResultDesc        string

	// Present only on success
	Amount        *decimal.Decimal
	ReceiptNumber string
	PhoneNumber   string
	TransactedAt  *time.Time
}

// gateway transaction timestamps come as YYYYMMDDHHmmss
const transactionTimeLayout = "20060102150405"

// Result flattens the envelope into a CallbackResult, extracting the
// success metadata items when present.
func (e *CallbackEnvelope) Result() *CallbackResult {
	cb := e.Body.StkCallback
	result := &CallbackResult{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode.String(),
		ResultDesc:        cb.ResultDesc,
	}

	if cb.CallbackMetadata == nil {
		return result
	}

	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			if amount, ok := toDecimal(item.Value); ok {
				result.Amount = &amount
			}
		case "MpesaReceiptNumber":
			if s, ok := item.Value.(string); ok {
				result.ReceiptNumber = s
			}
		case "PhoneNumber":
			result.PhoneNumber = toString(item.Value)
		case "TransactionDate":
			if ts, err := time.Parse(transactionTimeLayout, toString(item.Value)); err == nil {
				result.TransactedAt = &ts
			}
		}
	}

	return result
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	default:
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%v", v)
	}
}
