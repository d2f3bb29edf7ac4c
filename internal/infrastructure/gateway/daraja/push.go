package daraja

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/fundilink/verification-service/internal/domain/gateway"
)

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
}

type stkQueryRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

type stkQueryResponse struct {
	ResponseCode string `json:"ResponseCode"`
	ResultCode   string `json:"ResultCode"`
	ResultDesc   string `json:"ResultDesc"`
}

// InitiatePush sends one payment prompt to the payer's device.
// The phone number must already be canonical; this adapter never
// reformats it.
func (c *Client) InitiatePush(ctx context.Context, req *gateway.PushRequest) (*gateway.PushResponse, error) {
	timestamp := c.now().Format(timeLayout)

	payload := stkPushRequest{
		BusinessShortCode: c.shortCode,
		Password:          c.password(timestamp),
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            req.Amount.StringFixed(0),
		PartyA:            req.PhoneNumber,
		PartyB:            c.shortCode,
		PhoneNumber:       req.PhoneNumber,
		CallBackURL:       c.callbackURL,
		AccountReference:  req.AccountReference,
		TransactionDesc:   req.Description,
	}

	c.logger.Info("Initiating push payment",
		zap.String("account_reference", req.AccountReference),
		zap.String("amount", payload.Amount))

	status, body, err := c.postJSON(ctx, stkPushPath, payload)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		gwErr := errorFromResponse(status, body)
		c.logger.Error("Push initiation rejected",
			zap.Int("status_code", status),
			zap.String("code", gwErr.Code),
			zap.String("message", gwErr.Message))
		return nil, gwErr
	}

	var resp stkPushResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &gateway.GatewayError{Code: "PARSE_ERROR", Message: "Failed to parse push response", Details: string(body)}
	}

	if resp.ResponseCode != "0" {
		return nil, &gateway.GatewayError{
			Code:    resp.ResponseCode,
			Message: resp.ResponseDescription,
			Details: string(body),
		}
	}

	c.logger.Info("Push payment accepted",
		zap.String("merchant_request_id", resp.MerchantRequestID),
		zap.String("checkout_request_id", resp.CheckoutRequestID))

	return &gateway.PushResponse{
		MerchantRequestID:   resp.MerchantRequestID,
		CheckoutRequestID:   resp.CheckoutRequestID,
		ResponseDescription: resp.ResponseDescription,
	}, nil
}

// QueryStatus asks the gateway for the outcome of a previously initiated
// push. While the prompt is still open the gateway often answers with a
// transient error; callers treat those as still-pending.
func (c *Client) QueryStatus(ctx context.Context, checkoutRequestID string) (*gateway.StatusResponse, error) {
	timestamp := c.now().Format(timeLayout)

	payload := stkQueryRequest{
		BusinessShortCode: c.shortCode,
		Password:          c.password(timestamp),
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}

	status, body, err := c.postJSON(ctx, stkQueryPath, payload)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		gwErr := errorFromResponse(status, body)
		c.logger.Debug("Status query not ready",
			zap.String("checkout_request_id", checkoutRequestID),
			zap.Int("status_code", status),
			zap.String("code", gwErr.Code))
		return nil, gwErr
	}

	var resp stkQueryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &gateway.GatewayError{Code: "PARSE_ERROR", Message: "Failed to parse status response", Details: string(body)}
	}

	return &gateway.StatusResponse{
		ResultCode: resp.ResultCode,
		ResultDesc: resp.ResultDesc,
	}, nil
}
