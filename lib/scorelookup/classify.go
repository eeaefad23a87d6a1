package scorelookup

import (
	"encoding/json"
	"net/http"
	"strings"
)

// OutcomeKind discriminates what a (status, body) pair from Lookup means.
type OutcomeKind int

const (
	// the body is a plain-text score blob for an existing candidate
	Found OutcomeKind = iota
	// the candidate does not exist (status 500 or an empty/null body)
	NotFound
	// the captcha solution was rejected; retry the same candidate
	InvalidCaptcha
	// an error envelope we do not recognize, or an undecodable body
	TransientFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case InvalidCaptcha:
		return "invalid_captcha"
	case TransientFailure:
		return "transient_failure"
	}
	return "unknown"
}

// Outcome is the classified result of one lookup attempt.
type Outcome struct {
	Kind OutcomeKind
	// the score blob, set only when Kind == Found
	RawText string
	// the server's error message, set for error envelopes
	ErrorMessage string
}

// the API localizes its captcha-mismatch error under two known phrasings
var captchaMismatchPhrases = []string{
	"Mã xác nhận không khớp",
	"Yêu cầu không hợp lệ: Mã xác nhận không khớp",
}

type errorEnvelope struct {
	ErrorMessage string `json:"ErrorMessage"`
}

// Classify interprets one lookup response. The endpoint conflates missing
// records, captcha rejections and genuine failures across status code and
// body shape, so both are inspected:
//
//   - status 500 or an empty/"null" body is an absent candidate
//   - a JSON object carrying ErrorMessage is either a captcha rejection
//     (two known localized phrasings) or a transient failure
//   - any other JSON object is treated as absent (the API answers some
//     misses with an empty envelope rather than a 500)
//   - anything else is the plain-text score payload of a hit
func Classify(status int, body string) Outcome {
	if status == http.StatusInternalServerError {
		return Outcome{Kind: NotFound}
	}

	trimmed := strings.TrimSpace(body)
	if trimmed == "" || trimmed == "null" {
		return Outcome{Kind: NotFound}
	}

	if strings.HasPrefix(trimmed, "{") {
		var envelope errorEnvelope
		if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
			return Outcome{Kind: TransientFailure, ErrorMessage: trimmed}
		}
		if envelope.ErrorMessage == "" {
			return Outcome{Kind: NotFound}
		}
		for _, phrase := range captchaMismatchPhrases {
			if envelope.ErrorMessage == phrase {
				return Outcome{Kind: InvalidCaptcha, ErrorMessage: envelope.ErrorMessage}
			}
		}
		return Outcome{Kind: TransientFailure, ErrorMessage: envelope.ErrorMessage}
	}

	// successes are plain strings, sometimes JSON-quoted
	var quoted string
	if err := json.Unmarshal([]byte(trimmed), &quoted); err == nil {
		return Outcome{Kind: Found, RawText: quoted}
	}
	return Outcome{Kind: Found, RawText: trimmed}
}
