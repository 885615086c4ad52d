// Package export writes collected records as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cognicore/postsent/internal/collect"
	"github.com/cognicore/postsent/internal/xapi"
	"github.com/cognicore/postsent/pkg/postsent/polarity"
)

// Columns is the CSV header, in output order.
var Columns = []string{
	"tweet_id",
	"user_id",
	"username",
	"tweet_text",
	"created_at",
	"location",
	"lang",
	"source",
	"sentiment_original_compound",
	"sentiment_original_result",
	"sentiment_token_compound",
	"sentiment_token_result",
	"sentiment_stem_compound",
	"sentiment_stem_result",
	"reply_count",
	"retweet_count",
	"like_count",
	"quote_count",
	"hashtags",
	"urls",
	"mentions",
	"referenced_tweet_type",
	"reference_reply_count",
	"reference_retweet_count",
	"reference_like_count",
	"reference_quote_count",
	"user_profile_url",
	"tweet_url",
	"reference_user_profile_url",
	"reference_tweet_url",
	"run_id",
}

// TimeLayout formats created_at.
const TimeLayout = "2006-01-02 15:04:05-07:00"

// FileName is the default output name for a collection made at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("getPosts_%s.csv", t.Format("2006-01-02"))
}

// WriteCSV writes a header and one row per record.
func WriteCSV(w io.Writer, records []collect.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(row(rec)); err != nil {
			return fmt.Errorf("write post %s: %w", rec.TweetID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func row(rec collect.Record) []string {
	out := make([]string, 0, len(Columns))
	out = append(out,
		rec.TweetID,
		rec.UserID,
		rec.Username,
		rec.Text,
		createdAt(rec.CreatedAt),
		rec.Location,
		rec.Lang,
		rec.Source,
	)
	out = append(out, score(rec.Scores.Original)...)
	out = append(out, score(rec.Scores.TokenFiltered)...)
	out = append(out, score(rec.Scores.Stemmed)...)
	out = append(out, metrics(&rec.Metrics)...)
	out = append(out,
		rec.Hashtags,
		rec.URLs,
		rec.Mentions,
		rec.ReferencedType,
	)
	out = append(out, metrics(rec.ReferencedMetrics)...)
	out = append(out,
		rec.UserProfileURL,
		rec.TweetURL,
		rec.ReferencedUserProfileURL,
		rec.ReferencedTweetURL,
		rec.RunID,
	)
	return out
}

func createdAt(t time.Time) string {
	if t.IsZero() {
		return collect.NotAvailable
	}
	return t.Format(TimeLayout)
}

func score(s polarity.Score) []string {
	return []string{
		strconv.FormatFloat(s.Compound, 'f', -1, 64),
		s.Label.String(),
	}
}

// metrics renders reply, retweet, like and quote counts; nil renders as
// "N/A" in every column.
func metrics(m *xapi.PublicMetrics) []string {
	if m == nil {
		na := collect.NotAvailable
		return []string{na, na, na, na}
	}
	return []string{
		strconv.Itoa(m.ReplyCount),
		strconv.Itoa(m.RetweetCount),
		strconv.Itoa(m.LikeCount),
		strconv.Itoa(m.QuoteCount),
	}
}
