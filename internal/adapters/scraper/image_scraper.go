// Package scraper sources candidate mockup photos for products whose image
// table is empty, so the admin can backfill viewing angles without manual
// uploads.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

type ImageScraper struct {
	client *http.Client
}

func NewImageScraper() *ImageScraper {
	return &ImageScraper{
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

// SearchMockups looks up product photos by title and color. DuckDuckGo Images
// is tried first; Google Images is the fallback.
func (s *ImageScraper) SearchMockups(ctx context.Context, productTitle, color string, maxResults int) ([]string, error) {
	if maxResults <= 0 {
		maxResults = 6
	}
	if maxResults > 20 {
		maxResults = 20
	}

	query := buildMockupQuery(productTitle, color)

	images, err := s.searchDuckDuckGo(ctx, query, maxResults)
	if err == nil && len(images) > 0 {
		log.Info().Str("query", query).Int("found", len(images)).Msg("mockup images found on DuckDuckGo")
		return images, nil
	}
	log.Warn().Err(err).Msg("DuckDuckGo image search failed, trying Google Images")

	images, err = s.searchGoogleImages(ctx, query, maxResults)
	if err == nil && len(images) > 0 {
		log.Info().Str("query", query).Int("found", len(images)).Msg("mockup images found on Google")
		return images, nil
	}
	return nil, fmt.Errorf("no mockup images found: %w", err)
}

func buildMockupQuery(productTitle, color string) string {
	parts := []string{strings.TrimSpace(productTitle)}
	if c := strings.TrimSpace(color); c != "" {
		parts = append(parts, c)
	}
	// Steers results toward blank product photography rather than lifestyle shots.
	parts = append(parts, "promotional apparel mockup")
	return strings.Join(parts, " ")
}

var vqdPattern = regexp.MustCompile(`vqd="([^"]+)"`)

func (s *ImageScraper) searchDuckDuckGo(ctx context.Context, query string, maxResults int) ([]string, error) {
	// The image endpoint needs the vqd token from the search page first.
	searchURL := fmt.Sprintf("https://duckduckgo.com/?q=%s&iax=images&ia=images", url.QueryEscape(query))

	body, err := s.get(ctx, searchURL, "")
	if err != nil {
		return nil, err
	}
	matches := vqdPattern.FindStringSubmatch(string(body))
	if len(matches) < 2 {
		return nil, fmt.Errorf("vqd token not found")
	}

	imageSearchURL := fmt.Sprintf("https://duckduckgo.com/i.js?q=%s&vqd=%s&o=json&p=1&s=0",
		url.QueryEscape(query), url.QueryEscape(matches[1]))
	raw, err := s.get(ctx, imageSearchURL, searchURL)
	if err != nil {
		return nil, err
	}

	var result struct {
		Results []struct {
			Image     string `json:"image"`
			Thumbnail string `json:"thumbnail"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"results"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode image results: %w", err)
	}

	const minSize = 300
	var images []string
	for _, img := range result.Results {
		if img.Width < minSize || img.Height < minSize {
			continue
		}
		u := img.Image
		if u == "" {
			u = img.Thumbnail
		}
		if u != "" && strings.HasPrefix(u, "http") {
			images = append(images, u)
			if len(images) >= maxResults {
				break
			}
		}
	}
	return images, nil
}

func (s *ImageScraper) searchGoogleImages(ctx context.Context, query string, maxResults int) ([]string, error) {
	searchURL := fmt.Sprintf("https://www.google.com/search?tbm=isch&q=%s&safe=active", url.QueryEscape(query))

	raw, err := s.get(ctx, searchURL, "")
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return nil, err
	}

	var images []string
	doc.Find("img[data-src], img[src]").Each(func(i int, sel *goquery.Selection) {
		if len(images) >= maxResults {
			return
		}
		u, _ := sel.Attr("data-src")
		if !strings.HasPrefix(u, "http") {
			u, _ = sel.Attr("src")
		}
		if strings.HasPrefix(u, "http") && plausibleMockupURL(u) {
			images = append(images, u)
		}
	})

	imgPattern := regexp.MustCompile(`"(https?://[^"]+\.(?:jpg|jpeg|png|webp)[^"]*)"`)
	doc.Find("script").Each(func(i int, sel *goquery.Selection) {
		for _, match := range imgPattern.FindAllStringSubmatch(sel.Text(), -1) {
			if len(images) >= maxResults {
				return
			}
			if len(match) > 1 && plausibleMockupURL(match[1]) {
				images = append(images, match[1])
			}
		}
	})

	seen := make(map[string]bool)
	unique := images[:0]
	for _, u := range images {
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}
	if len(unique) > maxResults {
		unique = unique[:maxResults]
	}
	return unique, nil
}

func plausibleMockupURL(u string) bool {
	lower := strings.ToLower(u)
	return !strings.Contains(lower, "logo") &&
		!strings.Contains(lower, "icon") &&
		!strings.Contains(lower, "gstatic.com")
}

func (s *ImageScraper) get(ctx context.Context, rawURL, referer string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "uk-UA,uk;q=0.9,en;q=0.8")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
