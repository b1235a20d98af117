package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WhatsAppSender is the outbound WhatsApp transport boundary, backed by
// the WhatsApp Cloud API.
type WhatsAppSender interface {
	Send(to, message string) (string, error)
}

type whatsAppSender struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	client        *http.Client
}

func NewWhatsAppSender(baseURL, accessToken, phoneNumberID string) WhatsAppSender {
	return &whatsAppSender{
		baseURL:       baseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		client:        &http.Client{Timeout: 15 * time.Second},
	}
}

type whatsAppMessageRequest struct {
	MessagingProduct string           `json:"messaging_product"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Text             whatsAppTextBody `json:"text"`
}

type whatsAppTextBody struct {
	Body string `json:"body"`
}

type whatsAppMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Send implements WhatsAppSender.
func (w *whatsAppSender) Send(to, message string) (string, error) {
	if w.accessToken == "" || w.phoneNumberID == "" {
		return "", fmt.Errorf("whatsapp transport is not configured")
	}

	payload := whatsAppMessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             whatsAppTextBody{Body: message},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode whatsapp message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneNumberID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read whatsapp response: %w", err)
	}

	var parsed whatsAppMessageResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode whatsapp response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if parsed.Error != nil {
			return "", fmt.Errorf("whatsapp api error: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("whatsapp api returned status %d", resp.StatusCode)
	}

	if len(parsed.Messages) == 0 {
		return "", fmt.Errorf("whatsapp api returned no message id")
	}

	return parsed.Messages[0].ID, nil
}
