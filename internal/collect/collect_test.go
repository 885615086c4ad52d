package collect

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/postsent/internal/cursor"
	"github.com/cognicore/postsent/internal/cursor/memstore"
	"github.com/cognicore/postsent/internal/xapi"
	"github.com/cognicore/postsent/pkg/postsent/internalerr"
	"github.com/cognicore/postsent/pkg/postsent/polarity"
)

type fakeAPI struct {
	pages     map[string][]xapi.SearchPage
	tweets    map[string]xapi.Tweet
	users     map[string]xapi.User
	places    map[string]xapi.Place
	rateLimit map[string]bool // tweet IDs whose lookup is rate limited

	searches []xapi.SearchParams
	lookups  []string
}

func (f *fakeAPI) SearchRecent(ctx context.Context, p xapi.SearchParams) (xapi.SearchPage, error) {
	f.searches = append(f.searches, p)
	pages := f.pages[p.Query]
	idx := 0
	if p.NextToken != "" {
		fmt.Sscanf(p.NextToken, "page-%d", &idx)
	}
	if idx >= len(pages) {
		return xapi.SearchPage{}, nil
	}
	return pages[idx], nil
}

func (f *fakeAPI) GetTweet(ctx context.Context, id string) (xapi.Tweet, xapi.Includes, error) {
	f.lookups = append(f.lookups, id)
	if f.rateLimit[id] {
		return xapi.Tweet{}, xapi.Includes{}, fmt.Errorf("get tweet %s: %w", id, internalerr.ErrRateLimited)
	}
	tw, ok := f.tweets[id]
	if !ok {
		return xapi.Tweet{}, xapi.Includes{}, fmt.Errorf("get tweet %s: %w", id, internalerr.ErrNotFound)
	}
	return tw, xapi.Includes{Users: []xapi.User{f.users[tw.AuthorID]}}, nil
}

func (f *fakeAPI) Place(ctx context.Context, id string) (xapi.Place, bool, error) {
	p, ok := f.places[id]
	return p, ok, nil
}

var fixedNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func newCollector(api API, st *memstore.Store) *Collector {
	return New(Options{
		API:      api,
		Store:    st,
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	})
}

func TestCollectOriginalPost(t *testing.T) {
	api := &fakeAPI{
		pages: map[string][]xapi.SearchPage{
			"raptors": {{
				Tweets: []xapi.Tweet{{
					ID:        "101",
					Text:      "I LOVE this team!!! #Raptors @fan123 http://t.co/x",
					AuthorID:  "1",
					Lang:      "en",
					Source:    `<a href="http://twitter.com">Twitter Web App</a>`,
					CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
					Geo:       &xapi.Geo{PlaceID: "p1"},
					Entities: &xapi.Entities{
						Hashtags: []xapi.Hashtag{{Tag: "Raptors"}, {Tag: "WeTheNorth"}},
						Mentions: []xapi.Mention{{Username: "fan123", ID: "9"}},
					},
					PublicMetrics: &xapi.PublicMetrics{ReplyCount: 1, RetweetCount: 2, LikeCount: 3, QuoteCount: 4},
				}},
				Includes: xapi.Includes{Users: []xapi.User{{ID: "1", Username: "northfan"}}},
				Meta:     xapi.Meta{NewestID: "101"},
			}},
		},
		places: map[string]xapi.Place{"p1": {ID: "p1", FullName: "Toronto, Ontario"}},
	}
	st := memstore.New()
	c := newCollector(api, st)

	records, err := c.Collect(context.Background(), []string{"raptors"})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "northfan", rec.Username)
	assert.Equal(t, "Toronto, Ontario", rec.Location)
	assert.Equal(t, "English (en)", rec.Lang)
	assert.Equal(t, "Twitter Web App", rec.Source)
	assert.Equal(t, "#Raptors\n#WeTheNorth", rec.Hashtags)
	assert.Equal(t, NotAvailable, rec.URLs)
	assert.Equal(t, "@fan123 (user_id: 9)", rec.Mentions)
	assert.Equal(t, "original", rec.ReferencedType)
	assert.Nil(t, rec.ReferencedMetrics)
	assert.Equal(t, "https://twitter.com/northfan", rec.UserProfileURL)
	assert.Equal(t, "https://twitter.com/northfan/status/101", rec.TweetURL)
	assert.Equal(t, NotAvailable, rec.ReferencedTweetURL)
	assert.Equal(t, 3, rec.Metrics.LikeCount)
	assert.Equal(t, polarity.Positive, rec.Scores.Original.Label)
	assert.NotEmpty(t, rec.RunID)

	cur, found, err := st.Get(context.Background(), "raptors")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "101", cur.SinceID)

	runs, err := st.Runs(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, rec.RunID, runs[0].ID)
	assert.Equal(t, 1, runs[0].Posts)
	assert.False(t, runs[0].Partial)
}

func TestCollectRetweetExpandsTruncatedText(t *testing.T) {
	api := &fakeAPI{
		pages: map[string][]xapi.SearchPage{
			"barnes": {{
				Tweets: []xapi.Tweet{{
					ID:               "201",
					Text:             "RT @coach: Scottie Barnes was absolutely incredible tonight, best game of his…",
					AuthorID:         "2",
					Lang:             "und",
					ReferencedTweets: []xapi.ReferencedTweet{{Type: "retweeted", ID: "150"}},
				}},
				Includes: xapi.Includes{Users: []xapi.User{{ID: "2", Username: "retweeter"}}},
				Meta:     xapi.Meta{NewestID: "201"},
			}},
		},
		tweets: map[string]xapi.Tweet{
			"150": {
				ID:            "150",
				Text:          "Scottie Barnes was absolutely incredible tonight, best game of his career",
				AuthorID:      "3",
				PublicMetrics: &xapi.PublicMetrics{LikeCount: 500},
			},
		},
		users: map[string]xapi.User{"3": {ID: "3", Username: "coach"}},
	}
	c := newCollector(api, memstore.New())

	records, err := c.Collect(context.Background(), []string{"barnes"})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "RT @coach: Scottie Barnes was absolutely incredible tonight, best game of his career", rec.Text)
	assert.Equal(t, "retweeted", rec.ReferencedType)
	require.NotNil(t, rec.ReferencedMetrics)
	assert.Equal(t, 500, rec.ReferencedMetrics.LikeCount)
	assert.Equal(t, "https://twitter.com/coach", rec.ReferencedUserProfileURL)
	assert.Equal(t, "https://twitter.com/coach/status/150", rec.ReferencedTweetURL)
	assert.Equal(t, "Unknown (und)", rec.Lang)
	assert.Equal(t, NotAvailable, rec.Location)
	assert.Equal(t, NotAvailable, rec.Hashtags)
}

func TestCollectDeletedReference(t *testing.T) {
	api := &fakeAPI{
		pages: map[string][]xapi.SearchPage{
			"q": {{
				Tweets: []xapi.Tweet{{
					ID:               "301",
					Text:             "replying to a ghost",
					AuthorID:         "4",
					ReferencedTweets: []xapi.ReferencedTweet{{Type: "replied_to", ID: "gone"}},
				}},
				Includes: xapi.Includes{Users: []xapi.User{{ID: "4", Username: "someone"}}},
				Meta:     xapi.Meta{NewestID: "301"},
			}},
		},
	}
	c := newCollector(api, memstore.New())

	records, err := c.Collect(context.Background(), []string{"q"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "replied_to", records[0].ReferencedType)
	assert.Nil(t, records[0].ReferencedMetrics)
	assert.Equal(t, NotAvailable, records[0].ReferencedTweetURL)
}

func TestCollectRateLimitSalvagesRecords(t *testing.T) {
	api := &fakeAPI{
		pages: map[string][]xapi.SearchPage{
			"first": {{
				Tweets:   []xapi.Tweet{{ID: "10", Text: "good game", AuthorID: "1"}},
				Includes: xapi.Includes{Users: []xapi.User{{ID: "1", Username: "a"}}},
				Meta:     xapi.Meta{NewestID: "10"},
			}},
			"second": {{
				Tweets: []xapi.Tweet{
					{ID: "21", Text: "nice", AuthorID: "1"},
					{ID: "22", Text: "RT @x: …", AuthorID: "1", ReferencedTweets: []xapi.ReferencedTweet{{Type: "retweeted", ID: "limited"}}},
				},
				Includes: xapi.Includes{Users: []xapi.User{{ID: "1", Username: "a"}}},
				Meta:     xapi.Meta{NewestID: "22"},
			}},
			"third": {{Meta: xapi.Meta{NewestID: "30"}}},
		},
		rateLimit: map[string]bool{"limited": true},
	}
	st := memstore.New()
	c := newCollector(api, st)

	records, err := c.Collect(context.Background(), []string{"first", "second", "third"})
	require.Error(t, err)
	assert.ErrorIs(t, err, internalerr.ErrRateLimited)

	require.Len(t, records, 2)
	assert.Equal(t, "10", records[0].TweetID)
	assert.Equal(t, "21", records[1].TweetID)

	_, found, _ := st.Get(context.Background(), "first")
	assert.True(t, found, "completed query keeps its cursor")
	_, found, _ = st.Get(context.Background(), "second")
	assert.False(t, found, "interrupted query must not advance")

	for _, s := range api.searches {
		assert.NotEqual(t, "third", s.Query, "collection stops at the rate limit")
	}

	runs, _ := st.Runs(context.Background(), 1)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Partial)
	assert.Equal(t, 2, runs[0].Posts)
}

func TestCollectResumesFromCursor(t *testing.T) {
	api := &fakeAPI{pages: map[string][]xapi.SearchPage{}}
	st := memstore.New()
	require.NoError(t, st.Put(context.Background(), cursor.Cursor{Query: "q", SinceID: "555"}))

	c := newCollector(api, st)
	_, err := c.Collect(context.Background(), []string{"q"})
	require.NoError(t, err)

	require.Len(t, api.searches, 1)
	assert.Equal(t, "555", api.searches[0].SinceID)
	assert.Equal(t, 100, api.searches[0].MaxResults)
}

func TestCollectFollowsPages(t *testing.T) {
	api := &fakeAPI{
		pages: map[string][]xapi.SearchPage{
			"q": {
				{
					Tweets:   []xapi.Tweet{{ID: "9", AuthorID: "1", Text: "a"}},
					Includes: xapi.Includes{Users: []xapi.User{{ID: "1", Username: "u"}}},
					Meta:     xapi.Meta{NewestID: "9", NextToken: "page-1"},
				},
				{
					Tweets:   []xapi.Tweet{{ID: "5", AuthorID: "1", Text: "b"}},
					Includes: xapi.Includes{Users: []xapi.User{{ID: "1", Username: "u"}}},
					Meta:     xapi.Meta{NewestID: "5"},
				},
			},
		},
	}
	st := memstore.New()
	c := New(Options{API: api, Store: st, Pages: 3, Now: func() time.Time { return fixedNow }})

	records, err := c.Collect(context.Background(), []string{"q"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Len(t, api.searches, 2)

	cur, _, _ := st.Get(context.Background(), "q")
	assert.Equal(t, "9", cur.SinceID, "cursor tracks the newest post of the first page")
}
