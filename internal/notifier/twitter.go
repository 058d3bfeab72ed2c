package notifier

import (
	"fmt"
	"os"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
)

// TwitterNotifier announces added concerts on Twitter
type TwitterNotifier struct {
	client *twitter.Client
	loc    *time.Location
	pause  time.Duration
}

// NewTwitterNotifier creates a Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier(loc *time.Location) (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &TwitterNotifier{
		client: twitter.NewClient(httpClient),
		loc:    loc,
		pause:  2 * time.Second,
	}, nil
}

// Notify posts one tweet per added concert
func (n *TwitterNotifier) Notify(report *Report) error {
	for i, c := range report.Added {
		if _, _, err := n.client.Statuses.Update(formatAnnouncement(c, n.loc), nil); err != nil {
			return fmt.Errorf("failed to post tweet for concert %d: %w", c.ID, err)
		}

		// Rate limiting: wait between tweets
		if i < len(report.Added)-1 {
			time.Sleep(n.pause)
		}
	}

	return nil
}
