// Package source turns a podcast or video link into a local audio file.
//
// DetectPlatform maps a link to one of the supported platforms. Apple
// Podcasts and Xiaoyuzhou pages are scraped for a direct audio URL that the
// Downloader then fetches; Bilibili and YouTube are handed to yt-dlp, which
// writes the audio file itself. Locator ties the two paths together.
package source
