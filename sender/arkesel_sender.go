package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const arkeselSendURL = "https://sms.arkesel.com/api/v2/sms/send"

// ArkeselSender delivers SMS through the Arkesel HTTP API. Recipients must
// already be in international dialing format; checkout normalizes phone
// numbers once at order creation.
type ArkeselSender struct {
	apiKey     string
	senderID   string
	httpClient *http.Client
}

func NewArkeselSender(apiKey, senderID string) (*ArkeselSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ARKESEL_API_KEY not set")
	}
	if senderID == "" {
		senderID = "LiquorShop"
	}

	return &ArkeselSender{
		apiKey:     apiKey,
		senderID:   senderID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type arkeselRequest struct {
	Sender     string   `json:"sender"`
	Recipients []string `json:"recipients"`
	Message    string   `json:"message"`
}

type arkeselResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (a *ArkeselSender) SendSMS(ctx context.Context, to, msg string) (SendResult, error) {
	body, err := json.Marshal(arkeselRequest{
		Sender:     a.senderID,
		Recipients: []string{to},
		Message:    msg,
	})
	if err != nil {
		return SendResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, arkeselSendURL, bytes.NewReader(body))
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("api-key", a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("arkesel request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var parsed arkeselResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return SendResult{}, fmt.Errorf("arkesel returned invalid response %s: %s", resp.Status, string(respBody))
	}
	if parsed.Status != "success" {
		return SendResult{}, fmt.Errorf("arkesel error %s: %s", resp.Status, parsed.Message)
	}

	return SendResult{
		MessageID: fmt.Sprintf("arkesel-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}
