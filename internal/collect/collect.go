// Package collect searches recent posts for a set of queries, enriches
// each post and scores its text.
package collect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cognicore/postsent/internal/cursor"
	"github.com/cognicore/postsent/internal/langname"
	"github.com/cognicore/postsent/internal/logging"
	"github.com/cognicore/postsent/internal/xapi"
	"github.com/cognicore/postsent/pkg/postsent"
	"github.com/cognicore/postsent/pkg/postsent/internalerr"
)

// API is the subset of the X API the collector calls.
type API interface {
	SearchRecent(ctx context.Context, p xapi.SearchParams) (xapi.SearchPage, error)
	GetTweet(ctx context.Context, id string) (xapi.Tweet, xapi.Includes, error)
	Place(ctx context.Context, id string) (xapi.Place, bool, error)
}

// Options configures a Collector.
type Options struct {
	API      API
	Analyzer *postsent.Analyzer
	Store    cursor.Store
	Logger   *log.Logger
	// MaxResults per search page (10..100).
	MaxResults int
	// Pages per query; each page costs one search request.
	Pages int
	// Location for CreatedAt; defaults to time.Local.
	Location *time.Location
	Now      func() time.Time
}

// Collector gathers and scores posts.
type Collector struct {
	api        API
	analyzer   *postsent.Analyzer
	store      cursor.Store
	logger     *log.Logger
	maxResults int
	pages      int
	loc        *time.Location
	now        func() time.Time
}

// New creates a Collector. API and Store are required.
func New(opts Options) *Collector {
	c := &Collector{
		api:        opts.API,
		analyzer:   opts.Analyzer,
		store:      opts.Store,
		logger:     opts.Logger,
		maxResults: opts.MaxResults,
		pages:      opts.Pages,
		loc:        opts.Location,
		now:        opts.Now,
	}
	if c.analyzer == nil {
		c.analyzer = postsent.New(postsent.Options{})
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	if c.maxResults == 0 {
		c.maxResults = 100
	}
	if c.pages < 1 {
		c.pages = 1
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Collect runs every query in order and returns the scored records. A rate
// limit stops collection; the records gathered so far are returned with an
// error wrapping internalerr.ErrRateLimited. Cursors only advance for
// queries that completed.
func (c *Collector) Collect(ctx context.Context, queries []string) ([]Record, error) {
	run := cursor.Run{
		ID:        cursor.NewRunID(c.now()),
		StartedAt: c.now(),
		Queries:   queries,
	}
	logger := c.logger.With("run", run.ID)

	var records []Record
	var collectErr error
	for _, query := range queries {
		logger.Info("searching", "query", query)
		got, err := c.collectQuery(ctx, logger, run.ID, query)
		records = append(records, got...)
		if err != nil {
			collectErr = err
			break
		}
		logger.Info("query done", "query", query, "posts", len(got))
	}

	run.FinishedAt = c.now()
	run.Posts = len(records)
	run.Partial = collectErr != nil
	if err := c.store.RecordRun(ctx, run); err != nil {
		logger.Error("record run", "err", err)
	}

	if collectErr != nil {
		if errors.Is(collectErr, internalerr.ErrRateLimited) {
			logger.Warn("rate limited, returning partial results", "posts", len(records))
		}
		return records, collectErr
	}
	return records, nil
}

func (c *Collector) collectQuery(ctx context.Context, logger *log.Logger, runID, query string) ([]Record, error) {
	cur, found, err := c.store.Get(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("cursor for %q: %w", query, err)
	}
	params := xapi.SearchParams{Query: query, MaxResults: c.maxResults}
	if found {
		params.SinceID = cur.SinceID
		logger.Debug("resuming", "query", query, "since_id", cur.SinceID)
	}

	var records []Record
	newest := ""
	for page := 0; page < c.pages; page++ {
		res, err := c.api.SearchRecent(ctx, params)
		if err != nil {
			return records, err
		}
		if newest == "" {
			newest = res.Meta.NewestID
		}

		for _, tw := range res.Tweets {
			rec, err := c.enrich(ctx, tw, res.Includes)
			if err != nil {
				return records, err
			}
			rec.RunID = runID
			records = append(records, rec)
		}

		if res.Meta.NextToken == "" {
			break
		}
		params.NextToken = res.Meta.NextToken
	}

	if newest != "" {
		if err := c.store.Put(ctx, cursor.Cursor{Query: query, SinceID: newest, UpdatedAt: c.now()}); err != nil {
			return records, fmt.Errorf("advance cursor for %q: %w", query, err)
		}
	}
	return records, nil
}

// enrich builds a Record from a post. Only a rate limit is returned as an
// error; any other lookup failure degrades to "N/A" fields.
func (c *Collector) enrich(ctx context.Context, tw xapi.Tweet, inc xapi.Includes) (Record, error) {
	user, _ := inc.User(tw.AuthorID)

	rec := Record{
		TweetID:                  tw.ID,
		UserID:                   tw.AuthorID,
		Username:                 user.Username,
		Text:                     tw.Text,
		CreatedAt:                tw.CreatedAt.In(c.loc),
		Location:                 NotAvailable,
		Lang:                     langname.Format(tw.Lang),
		Source:                   xapi.CleanSource(tw.Source),
		Hashtags:                 joinHashtags(tw.Entities),
		URLs:                     joinURLs(tw.Entities),
		Mentions:                 joinMentions(tw.Entities),
		ReferencedType:           "original",
		UserProfileURL:           ProfileURL(user.Username),
		TweetURL:                 StatusURL(user.Username, tw.ID),
		ReferencedUserProfileURL: NotAvailable,
		ReferencedTweetURL:       NotAvailable,
	}
	if tw.PublicMetrics != nil {
		rec.Metrics = *tw.PublicMetrics
	}

	if tw.Geo != nil && tw.Geo.PlaceID != "" {
		loc, err := c.location(ctx, tw.Geo.PlaceID, inc)
		if err != nil {
			return Record{}, err
		}
		rec.Location = loc
	}

	if len(tw.ReferencedTweets) > 0 {
		if err := c.resolveReference(ctx, &rec, tw.ReferencedTweets[0]); err != nil {
			return Record{}, err
		}
	}

	rec.Scores = c.analyzer.Analyze(rec.Text)
	return rec, nil
}

func (c *Collector) location(ctx context.Context, placeID string, inc xapi.Includes) (string, error) {
	if p, ok := inc.Place(placeID); ok && p.FullName != "" {
		return p.FullName, nil
	}
	p, ok, err := c.api.Place(ctx, placeID)
	if errors.Is(err, internalerr.ErrRateLimited) {
		return "", err
	}
	if err != nil {
		c.logger.Warn("place lookup failed", "place_id", placeID, "err", err)
		return NotAvailable, nil
	}
	if !ok || p.FullName == "" {
		return NotAvailable, nil
	}
	return p.FullName, nil
}

func (c *Collector) resolveReference(ctx context.Context, rec *Record, ref xapi.ReferencedTweet) error {
	rec.ReferencedType = ref.Type

	orig, inc, err := c.api.GetTweet(ctx, ref.ID)
	if errors.Is(err, internalerr.ErrRateLimited) {
		return fmt.Errorf("resolve referenced post %s: %w", ref.ID, err)
	}
	if err != nil {
		c.logger.Warn("referenced post unavailable", "id", ref.ID, "err", err)
		return nil
	}

	author, ok := inc.User(orig.AuthorID)
	if !ok && len(inc.Users) > 0 {
		author = inc.Users[0]
	}

	// Retweets arrive truncated; swap in the full original text.
	if strings.HasSuffix(rec.Text, "…") && orig.Text != "" {
		rec.Text = fmt.Sprintf("RT @%s: %s", author.Username, orig.Text)
	}
	if orig.PublicMetrics != nil {
		m := *orig.PublicMetrics
		rec.ReferencedMetrics = &m
	}
	if author.Username != "" {
		rec.ReferencedUserProfileURL = ProfileURL(author.Username)
		rec.ReferencedTweetURL = StatusURL(author.Username, ref.ID)
	}
	return nil
}
