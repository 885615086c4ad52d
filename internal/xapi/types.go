package xapi

import "time"

// Tweet is a post as returned by the v2 API with the fields requested by
// SearchRecent and GetTweet.
type Tweet struct {
	ID               string            `json:"id"`
	Text             string            `json:"text"`
	AuthorID         string            `json:"author_id"`
	Lang             string            `json:"lang"`
	Source           string            `json:"source"`
	CreatedAt        time.Time         `json:"created_at"`
	Geo              *Geo              `json:"geo,omitempty"`
	Entities         *Entities         `json:"entities,omitempty"`
	PublicMetrics    *PublicMetrics    `json:"public_metrics,omitempty"`
	ReferencedTweets []ReferencedTweet `json:"referenced_tweets,omitempty"`
}

type Geo struct {
	PlaceID string `json:"place_id"`
}

type Entities struct {
	Hashtags []Hashtag `json:"hashtags,omitempty"`
	URLs     []URL     `json:"urls,omitempty"`
	Mentions []Mention `json:"mentions,omitempty"`
}

type Hashtag struct {
	Tag string `json:"tag"`
}

type URL struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
}

type Mention struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

type PublicMetrics struct {
	ReplyCount   int `json:"reply_count"`
	RetweetCount int `json:"retweet_count"`
	LikeCount    int `json:"like_count"`
	QuoteCount   int `json:"quote_count"`
}

// ReferencedTweet links a retweet, quote or reply to the post it refers to.
type ReferencedTweet struct {
	Type string `json:"type"` // retweeted, quoted, replied_to
	ID   string `json:"id"`
}

type User struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url"`
}

type Place struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Name      string `json:"name"`
	PlaceType string `json:"place_type"`
	Country   string `json:"country"`
}

// Includes holds the objects expanded alongside a response.
type Includes struct {
	Users  []User  `json:"users,omitempty"`
	Places []Place `json:"places,omitempty"`
	Tweets []Tweet `json:"tweets,omitempty"`
}

// User finds an expanded user by ID.
func (in Includes) User(id string) (User, bool) {
	for _, u := range in.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// Place finds an expanded place by ID.
func (in Includes) Place(id string) (Place, bool) {
	for _, p := range in.Places {
		if p.ID == id {
			return p, true
		}
	}
	return Place{}, false
}

type Meta struct {
	NewestID    string `json:"newest_id"`
	OldestID    string `json:"oldest_id"`
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}

// SearchPage is one page of recent-search results.
type SearchPage struct {
	Tweets   []Tweet  `json:"data"`
	Includes Includes `json:"includes"`
	Meta     Meta     `json:"meta"`
}

// SearchParams selects the posts returned by SearchRecent.
type SearchParams struct {
	Query      string
	MaxResults int // 10..100, clamped
	SinceID    string
	NextToken  string
}

type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
}

type tweetResponse struct {
	Data     *Tweet    `json:"data"`
	Includes Includes  `json:"includes"`
	Errors   []problem `json:"errors"`
}
