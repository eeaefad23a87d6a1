// Package scoretext parses the plain-text score payload returned by the
// lookup endpoint. The payload is a flat stream of "subject:score" pairs
// with no delimiter beyond whitespace, e.g.
//
//	Toán:8.2 Ngữ văn:7.75 KHTN:6.33 Vật lí:6.5
//
// Subject names may themselves contain spaces, so entries are consumed by
// prefix stripping rather than splitting on whitespace.
package scoretext

import (
	"fmt"
	"strconv"
	"strings"
)

// MalformedScoreError reports a score token that did not parse as a number.
type MalformedScoreError struct {
	Subject string
	Token   string
}

func (e *MalformedScoreError) Error() string {
	return fmt.Sprintf("malformed score for subject %q: %q", e.Subject, e.Token)
}

// Parse consumes a raw score blob and returns subject -> score. Subjects in
// the exclude set (aggregate composite categories) are dropped. A repeated
// subject overwrites the earlier value.
func Parse(raw string, exclude []string) (map[string]float64, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, s := range exclude {
		excluded[s] = true
	}

	scores := map[string]float64{}
	rest := strings.TrimSpace(raw)
	for rest != "" {
		subject, token, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, &MalformedScoreError{Subject: strings.TrimSpace(rest)}
		}
		subject = strings.TrimSpace(subject)

		token = strings.TrimSpace(token)
		if i := strings.IndexAny(token, " \t\n"); i >= 0 {
			token = token[:i]
		}

		score, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, &MalformedScoreError{Subject: subject, Token: token}
		}
		if !excluded[subject] {
			scores[subject] = score
		}

		prev := rest
		rest = strings.TrimSpace(rest)
		rest = strings.TrimPrefix(rest, subject+":")
		rest = strings.TrimSpace(rest)
		rest = strings.TrimPrefix(rest, token)
		rest = strings.TrimSpace(rest)
		if rest == prev {
			// the entry did not match the subject:token shape we
			// extracted, bail instead of spinning
			return nil, &MalformedScoreError{Subject: subject, Token: token}
		}
	}
	return scores, nil
}
