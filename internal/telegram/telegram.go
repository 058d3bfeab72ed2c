package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	apiBaseURL = "https://api.telegram.org/bot"
	timeout    = 10 * time.Second

	// Bot API replies are small JSON documents.
	maxResponseBytes = 1 << 20
)

// APIError is a sendMessage call the Bot API rejected.
type APIError struct {
	StatusCode  int
	Description string
	// RetryAfter is set when the chat is rate limited.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	desc := e.Description
	if desc == "" {
		desc = http.StatusText(e.StatusCode)
	}
	if e.RetryAfter > 0 {
		return fmt.Sprintf("telegram API error (status %d): %s (retry after %s)", e.StatusCode, desc, e.RetryAfter)
	}
	return fmt.Sprintf("telegram API error (status %d): %s", e.StatusCode, desc)
}

// Client posts concert announcements to one chat.
type Client struct {
	botToken   string
	chatID     string
	baseURL    string
	httpClient *http.Client
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string) (*Client, error) {
	if botToken == "" {
		return nil, errors.New("bot token is required")
	}
	if chatID == "" {
		return nil, errors.New("chat ID is required")
	}

	return &Client{
		botToken:   botToken,
		chatID:     chatID,
		baseURL:    apiBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// SendMessage sends an HTML message to the configured chat. A rejected call
// returns an *APIError carrying the Bot API description.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if text == "" {
		return errors.New("message text is required")
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                c.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	endpoint := c.baseURL + c.botToken + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var result apiResponse
	decodeErr := json.Unmarshal(body, &result)

	if resp.StatusCode != http.StatusOK {
		// Error bodies are JSON too; an unreadable one still reports the status.
		return &APIError{
			StatusCode:  resp.StatusCode,
			Description: result.Description,
			RetryAfter:  time.Duration(result.Parameters.RetryAfter) * time.Second,
		}
	}
	if decodeErr != nil {
		return fmt.Errorf("parsing response: %w", decodeErr)
	}
	if !result.OK {
		return &APIError{StatusCode: resp.StatusCode, Description: result.Description}
	}

	return nil
}
