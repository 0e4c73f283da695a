package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"mailcast/internal/model"
)

// MailerClient talks to the mail provider's HTTP send endpoint. It carries no
// business logic; it only dispatches fully rendered messages and classifies
// failures.
type MailerClient struct {
	url    string
	client *http.Client
}

func NewMailerClient(url string) *MailerClient {
	return &MailerClient{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type sendResponse struct {
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}

// Send dispatches one message and returns the provider message id. A 2xx
// without a messageId, a malformed body, a 5xx, a timeout or a connection
// error are all transient; a 4xx (except 408 and 429) is a permanent
// rejection of the destination.
func (c *MailerClient) Send(ctx context.Context, msg model.Message) (string, error) {
	reqBody, err := json.Marshal(sendRequest{
		To:      msg.SendTo,
		From:    msg.SendFrom,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return "", &SendError{Permanent: true, Reason: "encode request: " + err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return "", &SendError{Permanent: true, Reason: "build request: " + err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// Timeouts and connection errors: retry on a later tick.
		return "", &SendError{Reason: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &SendError{
			StatusCode: resp.StatusCode,
			Permanent:  permanentStatus(resp.StatusCode),
			Reason:     string(body),
		}
	}

	var sr sendResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", &SendError{StatusCode: resp.StatusCode, Reason: "decode response: " + err.Error(), Err: err}
	}
	if sr.MessageID == "" {
		return "", &SendError{StatusCode: resp.StatusCode, Reason: "missing messageId in response"}
	}

	return sr.MessageID, nil
}

func permanentStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return false
	}
	return code >= 400 && code < 500
}
