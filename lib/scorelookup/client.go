// Package scorelookup talks to the national exam score lookup API and
// classifies its responses. The endpoint is captcha-gated and answers
// under a single nominal contract with three actual body shapes: a JSON
// error envelope, a plain-text score blob, or an empty body on status 500.
package scorelookup

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/teppyboy/vn-thptqg-2024/lib/telemetry"
)

const DefaultHost = "https://api-tracuudiem.thitotnghiepthpt.edu.vn"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Client issues the captcha-fetch and record-lookup calls over one cookie
// session. The captcha is validated server-side against that session, so a
// Client must not be shared across concurrently enumerating regions.
type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// lookup API origin, DefaultHost when empty
	Host string
}

func NewClient(opts ClientOptions) (*Client, error) {
	host := opts.Host
	if host == "" {
		host = DefaultHost
	}

	client := resty.New()
	client.SetBaseURL(host)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scorelookup/http")

	return &Client{http: client}, nil
}

// FetchCaptchaImage downloads a fresh captcha challenge as opaque bytes.
func (c *Client) FetchCaptchaImage(ctx context.Context) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get("/Captcha/GetCaptchaImage")
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("captcha fetch returned status %d", res.StatusCode())
	}
	return res.Body(), nil
}

// Lookup queries one candidate's scores. It maps transport failures to an
// error and passes every HTTP outcome through as a raw (status, body) pair
// for Classify; it never retries.
func (c *Client) Lookup(ctx context.Context, sbd string, captchaText string) (int, string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"SBD":          sbd,
			"CaptchaValue": captchaText,
		}).
		Get("/Search_Score_/GetStudentMark")
	if err != nil {
		return 0, "", err
	}
	return res.StatusCode(), string(res.Body()), nil
}
