package source

import (
	"net/url"
	"strings"

	apperrors "github.com/kbukum/podscribe/errors"
)

// Platform identifies where a link points.
type Platform string

const (
	PlatformApple      Platform = "apple"
	PlatformXiaoyuzhou Platform = "xiaoyuzhou"
	PlatformBilibili   Platform = "bilibili"
	PlatformYouTube    Platform = "youtube"
)

// Extracted reports whether audio for the platform comes from yt-dlp rather
// than a scraped URL.
func (p Platform) Extracted() bool {
	return p == PlatformBilibili || p == PlatformYouTube
}

var platformHosts = []struct {
	host     string
	platform Platform
}{
	{"apple.com", PlatformApple},
	{"xiaoyuzhoufm.com", PlatformXiaoyuzhou},
	{"bilibili.com", PlatformBilibili},
	{"b23.tv", PlatformBilibili},
	{"youtube.com", PlatformYouTube},
	{"youtu.be", PlatformYouTube},
}

// DetectPlatform maps a link to its platform by host. Links without a
// scheme are matched on their raw text. Unknown hosts fail with
// UNSUPPORTED_PLATFORM.
func DetectPlatform(link string) (Platform, error) {
	target := strings.ToLower(strings.TrimSpace(link))
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		target = u.Hostname()
		for _, h := range platformHosts {
			if target == h.host || strings.HasSuffix(target, "."+h.host) {
				return h.platform, nil
			}
		}
		return "", apperrors.UnsupportedPlatform(link)
	}
	for _, h := range platformHosts {
		if strings.Contains(target, h.host) {
			return h.platform, nil
		}
	}
	return "", apperrors.UnsupportedPlatform(link)
}
