package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCallbackHandler_RejectsMalformedPayload(t *testing.T) {
	handler := NewCallbackHandler(nil, zap.NewNop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/callbacks/gateway", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Receive(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Malformed payload")
}

func TestCallbackHandler_RejectsMissingCheckoutID(t *testing.T) {
	handler := NewCallbackHandler(nil, zap.NewNop())

	body := `{"Body": {"stkCallback": {"MerchantRequestID": "merchant-1", "ResultCode": 0, "ResultDesc": "Success"}}}`

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/callbacks/gateway", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Receive(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing CheckoutRequestID")
}
