// Package config loads the file-based resources that tune the pipeline:
// stop lists, lexicon overrides and full valence lexicons.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/postsent/pkg/postsent/internalerr"
	"github.com/cognicore/postsent/pkg/postsent/stoplist"
)

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}
	if len(sl.Terms) == 0 {
		return nil, fmt.Errorf("stoplist %s has no terms: %w", path, internalerr.ErrInvalidConfig)
	}

	return &sl, nil
}

// Set converts the configuration into a stop set.
func (s *Stoplist) Set() *stoplist.Set {
	return stoplist.New(s.Terms)
}
