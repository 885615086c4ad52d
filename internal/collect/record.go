package collect

import (
	"fmt"
	"strings"
	"time"

	"github.com/cognicore/postsent/internal/xapi"
	"github.com/cognicore/postsent/pkg/postsent"
)

// NotAvailable fills fields a post does not carry.
const NotAvailable = "N/A"

// Record is one collected post with its enrichment and sentiment scores.
type Record struct {
	TweetID   string
	UserID    string
	Username  string
	Text      string
	CreatedAt time.Time
	Location  string
	Lang      string
	Source    string

	Scores postsent.Triple

	Metrics xapi.PublicMetrics

	Hashtags string
	URLs     string
	Mentions string

	// ReferencedType is "retweeted", "quoted", "replied_to" or "original".
	ReferencedType string
	// ReferencedMetrics is nil for original posts and unresolvable references.
	ReferencedMetrics *xapi.PublicMetrics

	UserProfileURL           string
	TweetURL                 string
	ReferencedUserProfileURL string
	ReferencedTweetURL       string

	RunID string
}

// ProfileURL is the public profile link for a username.
func ProfileURL(username string) string {
	return "https://twitter.com/" + username
}

// StatusURL is the public link to a post.
func StatusURL(username, id string) string {
	return fmt.Sprintf("https://twitter.com/%s/status/%s", username, id)
}

func joinHashtags(e *xapi.Entities) string {
	if e == nil || len(e.Hashtags) == 0 {
		return NotAvailable
	}
	parts := make([]string, len(e.Hashtags))
	for i, h := range e.Hashtags {
		parts[i] = "#" + h.Tag
	}
	return strings.Join(parts, "\n")
}

func joinURLs(e *xapi.Entities) string {
	if e == nil || len(e.URLs) == 0 {
		return NotAvailable
	}
	parts := make([]string, len(e.URLs))
	for i, u := range e.URLs {
		parts[i] = u.ExpandedURL
	}
	return strings.Join(parts, "\n")
}

func joinMentions(e *xapi.Entities) string {
	if e == nil || len(e.Mentions) == 0 {
		return NotAvailable
	}
	parts := make([]string, len(e.Mentions))
	for i, m := range e.Mentions {
		parts[i] = fmt.Sprintf("@%s (user_id: %s)", m.Username, m.ID)
	}
	return strings.Join(parts, "\n")
}
