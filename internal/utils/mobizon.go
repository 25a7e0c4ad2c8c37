package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const mobizonURL = "https://api.mobizon.kz/service/message/sendsmsmessage"

// Client talks to the Mobizon SMS gateway.
type Client struct {
	ApiKey  string
	Sender  string // optional sender id
	DryRun  bool
	BaseURL string
	HTTP    *http.Client
	Log     *zap.Logger
}

type SendSMSResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

func NewClientWithOptions(apiKey, sender string, dryRun bool, log *zap.Logger) *Client {
	return &Client{
		ApiKey:  apiKey,
		Sender:  sender,
		DryRun:  dryRun,
		BaseURL: mobizonURL,
		HTTP:    http.DefaultClient,
		Log:     log.Named("mobizon"),
	}
}

// SendSMS delivers text to the recipient, or only logs it in dry-run mode.
func (c *Client) SendSMS(to, text string) (*SendSMSResponse, error) {
	if c.DryRun || c.ApiKey == "" || c.ApiKey == "dry-run" {
		c.Log.Info("dry-run sms", zap.String("to", to), zap.String("sender", c.Sender), zap.String("text", text))
		return &SendSMSResponse{Code: 0}, nil
	}

	form := url.Values{
		"apiKey":    {c.ApiKey},
		"recipient": {to},
		"text":      {text},
	}
	if c.Sender != "" {
		form.Set("from", c.Sender)
	}

	resp, err := c.HTTP.PostForm(c.BaseURL, form)
	if err != nil {
		return nil, fmt.Errorf("send SMS request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.Log.Debug("mobizon response", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))

	var result SendSMSResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if result.Code != 0 {
		return nil, fmt.Errorf("mobizon returned error code %d: %s", result.Code, result.Message)
	}
	return &result, nil
}
