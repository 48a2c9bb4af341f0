// Package media resolves product imagery from external pages and serves
// resized thumbnails. Nothing here touches the database.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/net/html"
)

var (
	ErrInvalidURL    = errors.New("invalid url")
	ErrFetchFailed   = errors.New("failed to fetch resource")
	ErrNoImageFound  = errors.New("no image found on page")
	ErrUnsupported   = errors.New("unsupported image format")
	ErrImageTooLarge = errors.New("image exceeds size limit")
)

const (
	maxFetchBytes    = 8 << 20 // 8MB cap on fetched bodies
	defaultThumbSize = 256
	maxThumbSize     = 1024
)

type Service struct {
	httpClient *http.Client
}

func NewService() *Service {
	return &Service{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ResolveImage fetches the page and returns the og:image URL, falling back
// to twitter:image and then the first <img> tag.
func (s *Service) ResolveImage(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", ErrInvalidURL
	}
	req.Header.Set("User-Agent", "splitbuy-bot/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	imgURL := findImage(doc)
	if imgURL == "" {
		return "", ErrNoImageFound
	}
	return resolveRelative(u, imgURL), nil
}

// Thumbnail fetches the image, downscales it to fit within size pixels while
// keeping aspect ratio, and returns PNG bytes.
func (s *Service) Thumbnail(ctx context.Context, imageURL string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultThumbSize
	}
	if size > maxThumbSize {
		size = maxThumbSize
	}

	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, ErrInvalidURL
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if len(raw) > maxFetchBytes {
		return nil, ErrImageTooLarge
	}

	img, err := decode(raw, resp.Header.Get("Content-Type"), u.Path)
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fit(img, size, size, imaging.CatmullRom)

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, thumb); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(raw []byte, contentType, path string) (image.Image, error) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(bytes.NewReader(raw))
	case strings.Contains(ct, "png"):
		return png.Decode(bytes.NewReader(raw))
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(raw))
	}

	ext := strings.ToLower(path)
	switch {
	case strings.HasSuffix(ext, ".jpg"), strings.HasSuffix(ext, ".jpeg"):
		return jpeg.Decode(bytes.NewReader(raw))
	case strings.HasSuffix(ext, ".png"):
		return png.Decode(bytes.NewReader(raw))
	case strings.HasSuffix(ext, ".webp"):
		return webp.Decode(bytes.NewReader(raw))
	}

	// Last resort: let the registered decoders sniff it.
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ct)
	}
	return img, nil
}

// findImage walks the parsed document looking for og:image first, then
// twitter:image, then the first plain <img src>.
func findImage(doc *html.Node) string {
	var ogImage, twitterImage, firstImg string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				var prop, content string
				for _, a := range n.Attr {
					switch a.Key {
					case "property", "name":
						prop = a.Val
					case "content":
						content = a.Val
					}
				}
				if prop == "og:image" && ogImage == "" {
					ogImage = content
				}
				if prop == "twitter:image" && twitterImage == "" {
					twitterImage = content
				}
			case "img":
				if firstImg == "" {
					for _, a := range n.Attr {
						if a.Key == "src" && a.Val != "" {
							firstImg = a.Val
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if ogImage != "" {
		return ogImage
	}
	if twitterImage != "" {
		return twitterImage
	}
	return firstImg
}

func resolveRelative(base *url.URL, ref string) string {
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(refURL).String()
}
