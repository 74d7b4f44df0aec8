package source

import (
	"context"
	"fmt"

	"github.com/kbukum/podscribe/httpclient"
	"github.com/kbukum/podscribe/logger"
	"github.com/kbukum/podscribe/process"
	"github.com/kbukum/podscribe/provider"
)

// Located is where a link's audio was found.
type Located struct {
	Platform Platform
	// AudioURL is the scraped direct link; empty for extracted platforms.
	AudioURL string
	// LocalPath is set once the audio is on disk.
	LocalPath string
	Title     string
}

// Locator finds and fetches the audio behind a link.
type Locator struct {
	scraper    *Scraper
	downloader *Downloader
	extract    provider.RequestResponse[ExtractRequest, string]
	dir        string
	log        *logger.Logger
}

// NewLocator wires the scraper, downloader and yt-dlp extractor from cfg.
func NewLocator(cfg Config) (*Locator, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pages, err := httpclient.New(httpclient.Config{
		Name:       "podcast page",
		Timeout:    cfg.Timeout,
		UserAgent:  cfg.UserAgent,
		RateLimit:  cfg.RateLimit,
		Resilience: cfg.Resilience,
	})
	if err != nil {
		return nil, err
	}
	audio, err := httpclient.New(httpclient.Config{
		Name:       "audio host",
		UserAgent:  cfg.UserAgent,
		Resilience: cfg.Resilience,
	})
	if err != nil {
		return nil, err
	}
	runner := process.NewRunner(cfg.YtDlp, cfg.Resilience)
	return NewLocatorWith(
		NewScraper(pages, BrowserUserAgent),
		NewDownloader(audio, cfg.OutputDir),
		NewExtractor(runner),
		cfg.OutputDir,
	), nil
}

// NewLocatorWith assembles a Locator from parts. The extractor is wrapped
// with logging and tracing.
func NewLocatorWith(scraper *Scraper, downloader *Downloader, extract provider.RequestResponse[ExtractRequest, string], dir string) *Locator {
	log := logger.Get("source")
	return &Locator{
		scraper:    scraper,
		downloader: downloader,
		extract: provider.Chain(
			provider.WithLogging[ExtractRequest, string](log),
			provider.WithTracing[ExtractRequest, string](),
		)(extract),
		dir: dir,
		log: log,
	}
}

// Locate detects the platform, finds the audio and brings it to disk.
func (l *Locator) Locate(ctx context.Context, link, name string) (*Located, error) {
	platform, err := DetectPlatform(link)
	if err != nil {
		return nil, err
	}
	located := &Located{Platform: platform, Title: name}
	log := l.log.WithContext(ctx)
	log.Info("platform detected", logger.Fields(logger.FieldPlatform, string(platform), logger.FieldURL, link))

	switch platform {
	case PlatformApple:
		located.AudioURL, err = l.scraper.AppleAudioURL(ctx, link)
	case PlatformXiaoyuzhou:
		located.AudioURL, err = l.scraper.XiaoyuzhouAudioURL(ctx, link)
	case PlatformBilibili, PlatformYouTube:
		located.LocalPath, err = l.extract.Execute(ctx, ExtractRequest{URL: link, Name: name, OutputDir: l.dir})
		if err != nil {
			return nil, err
		}
		return located, nil
	default:
		return nil, fmt.Errorf("no audio source for platform %q", platform)
	}
	if err != nil {
		return nil, err
	}
	log.Info("audio url found", logger.Fields(logger.FieldURL, located.AudioURL))

	located.LocalPath, err = l.downloader.Download(ctx, located.AudioURL, name)
	if err != nil {
		return nil, err
	}
	return located, nil
}
