// Command postsent scores the sentiment of posts read from stdin or the
// command line.
//
//	postsent score < posts.txt
//	postsent explain "I LOVE this team!!! #Raptors"
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cognicore/postsent/internal/logging"
	"github.com/cognicore/postsent/pkg/postsent"
	"github.com/cognicore/postsent/pkg/postsent/config"
	"github.com/cognicore/postsent/pkg/postsent/normalize"
)

const usage = `usage: postsent [flags] <score|explain> [text ...]

With no text arguments, one post per line is read from stdin.

Flags:
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "postsent:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("postsent", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		stoplistPath = fs.String("stoplist", "", "Stoplist YAML file (optional, default English)")
		lexiconPath  = fs.String("lexicon", "", "Lexicon overrides YAML file (optional)")
		valencePath  = fs.String("valences", "", "Full VADER-format lexicon replacing the bundled one (optional)")
		language     = fs.String("lang", "english", "Snowball stemmer language")
		workers      = fs.Int("workers", 4, "Parallel scorers for the score command")
		logLevel     = fs.String("log-level", "warn", "Log level (debug, info, warn, error)")
	)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return flag.ErrHelp
	}

	logger, err := logging.New(*logLevel, "text", stderr)
	if err != nil {
		return err
	}

	loader := config.Loader{
		StoplistPath: *stoplistPath,
		LexiconPath:  *lexiconPath,
		ValencePath:  *valencePath,
		Language:     *language,
	}
	components, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	stats := components.Lexicon.Stats()
	logger.Debug("lexicon loaded",
		"valences", stats.Valences, "boosters", stats.Boosters,
		"negations", stats.Negations, "idioms", stats.Idioms, "emoji", stats.Emoji)

	texts := fs.Args()[1:]
	if len(texts) == 0 {
		texts, err = readLines(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	switch cmd := fs.Arg(0); cmd {
	case "score":
		return score(ctx, components.Analyzer, texts, *workers, stdout)
	case "explain":
		return explain(components.Analyzer, texts, stdout)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// scored is one line of score output.
type scored struct {
	Text   string          `json:"text"`
	Scores postsent.Triple `json:"scores"`
}

func score(ctx context.Context, a *postsent.Analyzer, texts []string, workers int, w io.Writer) error {
	triples, err := postsent.AnalyzeAll(ctx, a, texts, workers)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	for i, t := range triples {
		if err := enc.Encode(scored{Text: texts[i], Scores: t}); err != nil {
			return err
		}
	}
	return nil
}

// explained is one explain result, with the normalizer's intermediate stages.
type explained struct {
	postsent.Explanation
	Stages []normalize.Stage `json:"stages"`
}

func explain(a *postsent.Analyzer, texts []string, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	for _, text := range texts {
		out := explained{
			Explanation: a.Explain(text),
			Stages:      normalize.Trace(text),
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
