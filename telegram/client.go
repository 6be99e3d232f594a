// Package telegram implements the Telegram bot surface: a thin Bot API
// client and the webhook handler dispatching the simulation commands
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Thidomsilva/cryptoup/httpclient"
)

const defaultAPIURL = "https://api.telegram.org"

var errMissingToken = errors.New("missing bot token")

// apiResponse is the envelope every Bot API method responds with
type apiResponse struct {
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
	OK          bool            `json:"ok"`
}

// sendMessageRequest is the sendMessage method payload.
// ChatID accepts a numeric ID or an @channel username
type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

// Client is the Telegram Bot API client
type Client struct {
	client *httpclient.Client
	apiURL string
	token  string
}

// NewClient creates a new Bot API client.
// An empty apiURL selects the production Telegram API
func NewClient(client *httpclient.Client, token, apiURL string) (*Client, error) {
	if token == "" {
		return nil, errMissingToken
	}

	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	return &Client{
		client: client,
		apiURL: strings.TrimSuffix(apiURL, "/"),
		token:  token,
	}, nil
}

// SendMessage sends a Markdown message to the given chat
func (c *Client) SendMessage(ctx context.Context, chat, text string) error {
	payload := sendMessageRequest{
		ChatID:                chat,
		Text:                  text,
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	}

	return c.call(ctx, "sendMessage", payload, nil)
}

// GetMe fetches the bot's own user info
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := c.call(ctx, "getMe", nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetChat fetches info about the given chat or @channel
func (c *Client) GetChat(ctx context.Context, chat string) (*Chat, error) {
	payload := map[string]string{
		"chat_id": chat,
	}

	var info Chat
	if err := c.call(ctx, "getChat", payload, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// SetWebhook registers the webhook URL updates are delivered to
func (c *Client) SetWebhook(ctx context.Context, url string) error {
	payload := map[string]string{
		"url": url,
	}

	return c.call(ctx, "setWebhook", payload, nil)
}

// SetMyCommands registers the bot command list shown to users
func (c *Client) SetMyCommands(ctx context.Context, commands []Command) error {
	payload := map[string][]Command{
		"commands": commands,
	}

	return c.call(ctx, "setMyCommands", payload, nil)
}

// call executes a single Bot API method
func (c *Client) call(ctx context.Context, method string, payload, out any) error {
	var body io.Reader = http.NoBody

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("unable to marshal request: %w", err)
		}

		body = bytes.NewReader(raw)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.apiURL, c.token, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("unable to create POST request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	var resp apiResponse
	if err := c.client.GetJSON(req, &resp); err != nil {
		return err
	}

	if !resp.OK {
		return fmt.Errorf("bot API rejected %s: %s", method, resp.Description)
	}

	if out != nil {
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("unable to decode %s result: %w", method, err)
		}
	}

	return nil
}
