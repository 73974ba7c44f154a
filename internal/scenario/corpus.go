package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadCorpus reads and validates a YAML corpus: a top-level list of cases.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}

	var cases []Case
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}

	c := &Corpus{File: path, Cases: cases}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("corpus %s: %w", path, err)
	}
	return c, nil
}

// Validate reports every malformed case in the corpus.
func (c *Corpus) Validate() error {
	var errs []error
	seen := make(map[string]int)

	for i, tc := range c.Cases {
		n := i + 1
		if tc.Name == "" {
			errs = append(errs, fmt.Errorf("case %d: missing name", n))
		} else if prev, ok := seen[tc.Name]; ok {
			errs = append(errs, fmt.Errorf("case %d: duplicate name %q (first at case %d)", n, tc.Name, prev))
		} else {
			seen[tc.Name] = n
		}

		if len(tc.Assert) == 0 {
			errs = append(errs, fmt.Errorf("case %d (%s): no assertions", n, tc.Name))
		}
		for _, a := range tc.Assert {
			if !knownAssertions[a] {
				errs = append(errs, fmt.Errorf("case %d (%s): unknown assertion %q", n, tc.Name, a))
			}
			if a == BootedExpected && tc.Expected == "" {
				errs = append(errs, fmt.Errorf("case %d (%s): %s requires expected", n, tc.Name, a))
			}
		}
	}
	return errors.Join(errs...)
}
