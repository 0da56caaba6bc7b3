package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"recipebuilder/recipe"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts recipe cards to an incoming webhook.
type Client struct {
	webhookURL string
	channel    string
	httpClient doer
}

func NewClient(webhookURL, channel string, httpClient doer) *Client {
	return &Client{
		webhookURL: webhookURL,
		channel:    channel,
		httpClient: httpClient,
	}
}

type message struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// Message renders the card as webhook text: the recipe name in bold, then the
// display lines in a code block.
func Message(card recipe.Card) string {
	return fmt.Sprintf("*%s*\n```\n%s\n```", card.Name, card.Text())
}

// Publish posts the card to the configured channel.
func (c *Client) Publish(ctx context.Context, card recipe.Card) error {
	payload, err := json.Marshal(message{Channel: c.channel, Text: Message(card)})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post card: %s", resp.Status)
	}

	return nil
}
