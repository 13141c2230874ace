// Package gateway implements the HTTP client for the Chapa payment gateway
// transaction API. Callers get three distinguishable outcomes from every
// call: success, a gateway-reported rejection (*Error with Transport=false),
// and a transport/timeout failure (*Error with Transport=true).
package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// DefaultTimeout bounds every gateway call so a slow gateway cannot pin a
// request thread indefinitely.
const DefaultTimeout = 30 * time.Second

// Config holds the gateway credentials and endpoints. It is injected into
// NewClient rather than read from process-wide globals.
type Config struct {
	SecretKey   string
	BaseURL     string
	CallbackURL string
	Timeout     time.Duration
}

// Client talks to the gateway's transaction API.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a gateway client from the given configuration.
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Error is returned for both gateway-reported rejections and transport
// failures. The two are told apart via the Transport flag.
type Error struct {
	Message     string
	Transport   bool
	RawResponse string
}

func (e *Error) Error() string {
	if e.Transport {
		return fmt.Sprintf("gateway unreachable: %s", e.Message)
	}
	return fmt.Sprintf("gateway rejected request: %s", e.Message)
}

// IsTransport reports whether err is a transport/timeout failure rather
// than a gateway-reported rejection.
func IsTransport(err error) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.Transport
}

// InitializeRequest carries the fields of an initialize-transaction call.
type InitializeRequest struct {
	Amount      float64
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	Reference   string
	Title       string
	Description string
}

// InitializeData is the successful result of an initialize call.
type InitializeData struct {
	CheckoutURL string
	Reference   string
	RawResponse string
}

// VerifyData is the successful result of a verify call. Status carries the
// gateway's own view of the transaction (success, failed, or still pending).
type VerifyData struct {
	Status        string
	TransactionID string
	PaymentMethod string
	RawResponse   string
}

type initializePayload struct {
	Amount        string                `json:"amount"`
	Currency      string                `json:"currency"`
	Email         string                `json:"email"`
	FirstName     string                `json:"first_name"`
	LastName      string                `json:"last_name"`
	PhoneNumber   string                `json:"phone_number,omitempty"`
	TxRef         string                `json:"tx_ref"`
	CallbackURL   string                `json:"callback_url"`
	ReturnURL     string                `json:"return_url"`
	Customization *customizationFields `json:"customization,omitempty"`
}

type customizationFields struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type gatewayEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize starts a transaction at the gateway and returns the hosted
// checkout URL where the payer completes payment.
func (c *Client) Initialize(req InitializeRequest) (*InitializeData, error) {
	callback := fmt.Sprintf("%s?reference=%s", c.config.CallbackURL, req.Reference)
	payload := initializePayload{
		Amount:      strconv.FormatFloat(req.Amount, 'f', 2, 64),
		Currency:    req.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		TxRef:       req.Reference,
		CallbackURL: callback,
		ReturnURL:   callback,
	}
	if req.Title != "" || req.Description != "" {
		payload.Customization = &customizationFields{
			Title:       req.Title,
			Description: req.Description,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode initialize payload: %v", err)
	}

	url := c.config.BaseURL + "/transaction/initialize"
	httpReq, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build initialize request: %v", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	envelope, raw, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var data struct {
		CheckoutURL string `json:"checkout_url"`
		TxRef       string `json:"tx_ref"`
	}
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return nil, &Error{Message: "malformed initialize response", RawResponse: raw}
		}
	}
	if data.CheckoutURL == "" {
		return nil, &Error{Message: "initialize response missing checkout URL", RawResponse: raw}
	}
	if data.TxRef == "" {
		data.TxRef = req.Reference
	}

	return &InitializeData{
		CheckoutURL: data.CheckoutURL,
		Reference:   data.TxRef,
		RawResponse: raw,
	}, nil
}

// Verify queries the gateway for the current state of the transaction
// identified by reference.
func (c *Client) Verify(reference string) (*VerifyData, error) {
	url := c.config.BaseURL + "/transaction/verify/" + reference
	httpReq, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %v", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.SecretKey)

	envelope, raw, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var data struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Method    string `json:"method"`
	}
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return nil, &Error{Message: "malformed verify response", RawResponse: raw}
		}
	}

	return &VerifyData{
		Status:        data.Status,
		TransactionID: data.Reference,
		PaymentMethod: data.Method,
		RawResponse:   raw,
	}, nil
}

// do executes the request and folds the response into the shared envelope.
// Non-2xx statuses and non-success envelope statuses become gateway
// rejections; network errors become transport failures.
func (c *Client) do(req *http.Request) (*gatewayEnvelope, string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &Error{Message: err.Error(), Transport: true}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{Message: fmt.Sprintf("failed to read response: %v", err), Transport: true}
	}
	raw := string(body)

	var envelope gatewayEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, raw, &Error{
			Message:     fmt.Sprintf("invalid gateway response (HTTP %d)", resp.StatusCode),
			RawResponse: raw,
		}
	}

	if resp.StatusCode != http.StatusOK || envelope.Status != "success" {
		message := envelope.Message
		if message == "" {
			message = fmt.Sprintf("gateway returned HTTP %d", resp.StatusCode)
		}
		return nil, raw, &Error{Message: message, RawResponse: raw}
	}

	return &envelope, raw, nil
}
