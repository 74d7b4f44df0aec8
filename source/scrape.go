package source

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/httpclient"
)

// audioURLPattern matches direct MP3/M4A links embedded anywhere in a page.
var audioURLPattern = regexp.MustCompile(`https://[^\s^"]+(?:\.mp3|\.m4a)`)

// Scraper extracts direct audio URLs from podcast pages.
type Scraper struct {
	client    *httpclient.Client
	userAgent string
}

// NewScraper creates a Scraper over client.
func NewScraper(client *httpclient.Client, userAgent string) *Scraper {
	return &Scraper{client: client, userAgent: userAgent}
}

// AppleAudioURL returns the last MP3/M4A link on an Apple Podcasts page.
// The page is decoded from whatever charset it declares.
func (s *Scraper) AppleAudioURL(ctx context.Context, pageURL string) (string, error) {
	page, err := s.fetch(ctx, pageURL, "")
	if err != nil {
		return "", err
	}
	matches := audioURLPattern.FindAllString(page, -1)
	if len(matches) == 0 {
		return "", apperrors.AudioNotFound(pageURL, "no MP3 or M4A link on the page")
	}
	return matches[len(matches)-1], nil
}

// XiaoyuzhouAudioURL returns the og:audio meta content of a Xiaoyuzhou
// episode page.
func (s *Scraper) XiaoyuzhouAudioURL(ctx context.Context, pageURL string) (string, error) {
	page, err := s.fetch(ctx, pageURL, s.userAgent)
	if err != nil {
		return "", err
	}
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", apperrors.AudioNotFound(pageURL, "page is not valid HTML").WithCause(err)
	}
	if audio := metaContent(doc, "og:audio"); audio != "" {
		return audio, nil
	}
	return "", apperrors.AudioNotFound(pageURL, "no og:audio meta tag")
}

func (s *Scraper) fetch(ctx context.Context, pageURL, userAgent string) (string, error) {
	req := httpclient.Request{Method: http.MethodGet, Path: pageURL}
	if userAgent != "" {
		req.Headers = map[string]string{"User-Agent": userAgent}
	}
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return "", err
	}
	return decodePage(resp.Body, resp.Headers.Get("Content-Type"))
}

// decodePage converts body to UTF-8 using the Content-Type header, a BOM or
// a <meta charset> declaration, in that order.
func decodePage(body []byte, contentType string) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body), nil
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", apperrors.InvalidFormat("page", "decodable HTML").WithCause(err)
	}
	return string(decoded), nil
}

// metaContent returns the content attribute of the first
// <meta property=prop> element.
func metaContent(n *html.Node, prop string) string {
	if n.Type == html.ElementNode && n.Data == "meta" {
		var property, content string
		for _, a := range n.Attr {
			switch strings.ToLower(a.Key) {
			case "property":
				property = a.Val
			case "content":
				content = a.Val
			}
		}
		if property == prop && content != "" {
			return content
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if v := metaContent(c, prop); v != "" {
			return v
		}
	}
	return ""
}
