package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/postsent/internal/collect"
	"github.com/cognicore/postsent/internal/xapi"
	"github.com/cognicore/postsent/pkg/postsent"
	"github.com/cognicore/postsent/pkg/postsent/lexicon"
	"github.com/cognicore/postsent/pkg/postsent/polarity"
)

func sampleRecord() collect.Record {
	return collect.Record{
		TweetID:   "101",
		UserID:    "1",
		Username:  "northfan",
		Text:      "I LOVE this team!!!\nline two, with comma",
		CreatedAt: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
		Location:  collect.NotAvailable,
		Lang:      "English (en)",
		Source:    "Twitter Web App",
		Scores: postsent.Triple{
			Original:      polarity.Score{Compound: 0.7788, Label: polarity.Positive},
			TokenFiltered: polarity.Score{Compound: 0.7249, Label: polarity.Positive},
			Stemmed:       polarity.Score{Compound: 0, Label: polarity.Neutral},
		},
		Metrics:                  xapi.PublicMetrics{ReplyCount: 1, RetweetCount: 2, LikeCount: 3, QuoteCount: 4},
		Hashtags:                 "#Raptors\n#WeTheNorth",
		URLs:                     collect.NotAvailable,
		Mentions:                 "@fan123 (user_id: 9)",
		ReferencedType:           "original",
		UserProfileURL:           "https://twitter.com/northfan",
		TweetURL:                 "https://twitter.com/northfan/status/101",
		ReferencedUserProfileURL: collect.NotAvailable,
		ReferencedTweetURL:       collect.NotAvailable,
		RunID:                    "01JAAAAAAAAAAAAAAAAAAAAAAA",
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []collect.Record{sampleRecord()}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Columns, rows[0])
	require.Len(t, rows[1], len(Columns))

	got := map[string]string{}
	for i, col := range Columns {
		got[col] = rows[1][i]
	}
	assert.Equal(t, "I LOVE this team!!!\nline two, with comma", got["tweet_text"])
	assert.Equal(t, "2026-03-01 12:30:00+00:00", got["created_at"])
	assert.Equal(t, "0.7788", got["sentiment_original_compound"])
	assert.Equal(t, "Positive", got["sentiment_original_result"])
	assert.Equal(t, "0.7249", got["sentiment_token_compound"])
	assert.Equal(t, "0", got["sentiment_stem_compound"])
	assert.Equal(t, "Neutral", got["sentiment_stem_result"])
	assert.Equal(t, "3", got["like_count"])
	assert.Equal(t, "#Raptors\n#WeTheNorth", got["hashtags"])
	assert.Equal(t, "N/A", got["reference_like_count"])
	assert.Equal(t, "N/A", got["reference_quote_count"])
	assert.Equal(t, "01JAAAAAAAAAAAAAAAAAAAAAAA", got["run_id"])
}

func TestWriteCSVScorerCompounds(t *testing.T) {
	scorer := polarity.NewScorer(lexicon.Default())
	texts := []string{
		"heartbroken",
		"ugh this refereeing",
		"I LOVE this team!!!",
		"what a win!! so proud of these guys",
		"",
	}

	for _, text := range texts {
		s := scorer.Score(text)
		got := score(s)
		want := strconv.FormatFloat(s.Compound, 'f', 4, 64)
		parsed, err := strconv.ParseFloat(got[0], 64)
		require.NoError(t, err)
		assert.Equal(t, s.Compound, parsed, "compound for %q should round-trip", text)
		assert.LessOrEqual(t, len(got[0]), len(want), "compound for %q has more than 4 places: %s", text, got[0])
		assert.Equal(t, s.Label.String(), got[1])
	}
}

func TestWriteCSVReferencedMetrics(t *testing.T) {
	rec := sampleRecord()
	rec.ReferencedType = "retweeted"
	rec.ReferencedMetrics = &xapi.PublicMetrics{ReplyCount: 5, RetweetCount: 6, LikeCount: 7, QuoteCount: 8}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []collect.Record{rec}))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"5", "6", "7", "8"}, rows[1][22:26])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestColumnsMatchRow(t *testing.T) {
	assert.Len(t, Columns, 31)
	assert.Len(t, row(sampleRecord()), len(Columns))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "getPosts_2026-03-01.csv", FileName(time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)))
}
