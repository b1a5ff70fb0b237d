package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const paystackBaseURL = "https://api.paystack.co"

// PaystackClient talks to the Paystack REST API. The secret key signs
// webhook payloads as well as authorizing API calls.
type PaystackClient struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewPaystackClient(secretKey string) (*PaystackClient, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("PAYSTACK_SECRET_KEY not set")
	}
	return &PaystackClient{
		secretKey:  secretKey,
		baseURL:    paystackBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type InitializePaymentRequest struct {
	Email       string  `json:"email"`
	AmountCedis float64 `json:"-"`
	OrderID     string  `json:"-"`
	CallbackURL string  `json:"-"`
}

type InitializePaymentResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize starts a hosted-checkout transaction. Amounts cross the wire in
// pesewas; the order id travels in metadata so the webhook can find the
// order without a reference lookup table.
func (c *PaystackClient) Initialize(ctx context.Context, req *InitializePaymentRequest) (*InitializePaymentResult, error) {
	payload := map[string]interface{}{
		"email":  req.Email,
		"amount": AmountInPesewas(req.AmountCedis),
		"metadata": map[string]string{
			"order_id": req.OrderID,
		},
	}
	if req.CallbackURL != "" {
		payload["callback_url"] = req.CallbackURL
	}

	var result InitializePaymentResult
	if err := c.post(ctx, "/transaction/initialize", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type VerifyPaymentResult struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Metadata  struct {
		OrderID string `json:"order_id"`
	} `json:"metadata"`
	PaidAt          string `json:"paid_at"`
	GatewayResponse string `json:"gateway_response"`
}

// Verify fetches the authoritative state of a transaction by reference.
// Status "success" is the only value that marks an order paid.
func (c *PaystackClient) Verify(ctx context.Context, reference string) (*VerifyPaymentResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	var result VerifyPaymentResult
	if err := c.do(httpReq, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyWebhookSignature checks the X-Paystack-Signature header: an
// HMAC-SHA512 of the raw request body keyed with the secret key, hex
// encoded. Compared in constant time.
func (c *PaystackClient) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// WebhookEvent is the subset of the webhook payload the pipeline acts on.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Metadata  struct {
			OrderID string `json:"order_id"`
		} `json:"metadata"`
	} `json:"data"`
}

func (c *PaystackClient) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")
	return c.do(httpReq, out)
}

func (c *PaystackClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("paystack response read failed: %w", err)
	}

	var envelope paystackEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("paystack response malformed (status %d): %w", resp.StatusCode, err)
	}
	if !envelope.Status {
		return fmt.Errorf("paystack error (status %d): %s", resp.StatusCode, envelope.Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("paystack data malformed: %w", err)
		}
	}
	return nil
}
