package recorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"github.com/chromedp/chromedp"
	colly "github.com/gocolly/colly/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

var errNoDocument = errors.New("page returned no html document")

// hiddenElements never contribute to the visible text of a page.
const hiddenElements = "script, style, noscript, template, svg, head"

// blockElements end a line of visible text, like innerText does.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "td": true, "th": true,
	"tr": true, "ul": true,
}

// PageFetcher loads a page and returns its visible text.
type PageFetcher struct {
	// Render drives a headless Chrome and reads document.body.innerText so
	// client-side rendered pages produce text.
	Render    bool
	Timeout   time.Duration
	transport http.RoundTripper
}

func NewPageFetcher(render bool, timeout time.Duration) *PageFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PageFetcher{
		Render:    render,
		Timeout:   timeout,
		transport: brotliTransport{base: &http.Transport{Proxy: http.ProxyFromEnvironment}},
	}
}

// PageText returns the visible text of pageURL.
func (f *PageFetcher) PageText(ctx context.Context, pageURL string) (string, error) {
	if f.Render {
		return f.renderedText(ctx, pageURL)
	}
	return f.fetchedText(ctx, pageURL)
}

func (f *PageFetcher) fetchedText(ctx context.Context, pageURL string) (string, error) {
	c := colly.NewCollector(colly.StdlibContext(ctx))
	c.WithTransport(f.transport)
	c.SetRequestTimeout(f.Timeout)
	c.UserAgent = browserUserAgent

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		// Setting this by hand turns off transparent gzip in net/http; colly
		// inflates gzip itself and brotliTransport handles br.
		r.Headers.Set("Accept-Encoding", "gzip, br")
	})

	c.OnResponse(func(r *colly.Response) {
		// colly converts charsets named in Content-Type; anything still not
		// UTF-8 declares its charset in a meta tag or BOM.
		if len(r.Body) == 0 || utf8.Valid(r.Body) {
			return
		}
		utf8Reader, err := charset.NewReader(bytes.NewReader(r.Body), r.Headers.Get("Content-Type"))
		if err != nil {
			return
		}
		if decoded, err := io.ReadAll(utf8Reader); err == nil && len(decoded) > 0 {
			r.Body = decoded
		}
	})

	var (
		text  string
		found bool
	)
	c.OnHTML("html", func(e *colly.HTMLElement) {
		if found {
			return
		}
		found = true
		text = visibleText(e.DOM)
	})

	if err := c.Visit(pageURL); err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	if !found {
		return "", fmt.Errorf("fetch %s: %w", pageURL, errNoDocument)
	}
	return text, nil
}

// brotliTransport inflates br responses before colly sees them, so its own
// charset handling works on plain bytes.
type brotliTransport struct {
	base http.RoundTripper
}

func (t brotliTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || !strings.Contains(resp.Header.Get("Content-Encoding"), "br") {
		return resp, err
	}
	resp.Body = brotliBody{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

type brotliBody struct {
	io.Reader
	io.Closer
}

// visibleText approximates innerText: hidden elements are skipped and block
// elements break lines.
func visibleText(sel *goquery.Selection) string {
	doc := sel.Clone()
	doc.Find(hiddenElements).Remove()
	doc.Find("[hidden], [aria-hidden='true']").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			words := strings.Fields(n.Data)
			if len(words) == 0 {
				if n.Data != "" {
					b.WriteByte(' ')
				}
				return
			}
			if isSpace(n.Data[0]) {
				b.WriteByte(' ')
			}
			b.WriteString(strings.Join(words, " "))
			if isSpace(n.Data[len(n.Data)-1]) {
				b.WriteByte(' ')
			}
			return
		case html.ElementNode:
			if blockElements[n.Data] {
				b.WriteByte('\n')
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			b.WriteByte('\n')
		}
	}
	for _, n := range body.Nodes {
		walk(n)
	}

	lines := strings.Split(b.String(), "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

// renderedText loads pageURL in headless Chrome and reads innerText once the
// body is ready.
func (f *PageFetcher) renderedText(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.UserAgent(browserUserAgent),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var text string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", pageURL, err)
	}
	return text, nil
}
