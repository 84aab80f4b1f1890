// Package razorpay is a small client for the Razorpay orders API.
package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrMissingCredentials = errors.New("razorpay credentials are not configured")

type Order struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type OrderRequest struct {
	Amount   int               `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Gateway is what the payment flow needs from Razorpay.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

type Client struct {
	keyID     string
	keySecret string
	http      *resty.Client
}

func NewClient(baseURL, keyID, keySecret string) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(keyID, keySecret).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	return &Client{keyID: keyID, keySecret: keySecret, http: http}
}

func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder registers an order of amount paise with Razorpay.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if c.keyID == "" || c.keySecret == "" {
		return nil, ErrMissingCredentials
	}

	var order Order
	var failure apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&order).
		SetError(&failure).
		Post("/v1/orders")
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("razorpay create order: status %d: %s %s",
			resp.StatusCode(), failure.Error.Code, failure.Error.Description)
	}
	if order.ID == "" {
		return nil, errors.New("razorpay create order: response has no order id")
	}
	return &order, nil
}

// Signature is hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
func Signature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares in constant time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	if c.keySecret == "" || signature == "" {
		return false
	}
	expected := Signature(c.keySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
