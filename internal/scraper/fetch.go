package scraper

import (
	"context"
	"io"
	"mime"
	"net/http"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"mspro-labs/inspection-map/internal/htmldoc"
)

// Page is a raw results page and the encoding of its bytes.
type Page struct {
	Body     []byte
	Encoding string
}

// Fetch GETs the results page with the given query. Page.Encoding is the
// charset declared by the response, or "" when there is none.
func Fetch(ctx context.Context, hc *http.Client, resultsURL string, overrides map[string]string) (*Page, error) {
	reqURL := resultsURL + "?" + BuildQuery(overrides).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "scraper: build request")
	}

	zap.L().Info("fetching results page", zap.String("url", reqURL))
	resp, err := hc.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "scraper: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Errorf("scraper: results page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "scraper: read body")
	}
	return &Page{Body: body, Encoding: charsetOf(resp.Header.Get("Content-Type"))}, nil
}

// charsetOf returns the charset parameter of a Content-Type header, or ""
// when the response does not declare one.
func charsetOf(contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

// LoadFile reads a previously saved results page. Saved pages are UTF-8.
func LoadFile(path string) (*Page, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scraper: read %s", path)
	}
	return &Page{Body: body, Encoding: htmldoc.DefaultEncoding}, nil
}

// FetchWithBrowser loads the results page in a headless browser and returns
// the rendered HTML once waitSelector is present.
func FetchWithBrowser(resultsURL string, overrides map[string]string, waitSelector string) (*Page, error) {
	zap.L().Info("launching headless browser")
	browser, err := launchBrowser()
	if err != nil {
		return nil, eris.Wrap(err, "scraper: launch browser")
	}
	defer browser.MustClose()

	html, err := renderPage(browser, resultsURL+"?"+BuildQuery(overrides).Encode(), waitSelector)
	if err != nil {
		return nil, eris.Wrap(err, "scraper: render page")
	}
	return &Page{Body: []byte(html), Encoding: htmldoc.DefaultEncoding}, nil
}

func launchBrowser() (*rod.Browser, error) {
	l := launcher.New().Headless(true).NoSandbox(true)
	u, err := l.Launch()
	if err != nil {
		return nil, err
	}
	return rod.New().ControlURL(u).MustConnect(), nil
}

func renderPage(browser *rod.Browser, pageURL, waitSelector string) (html string, err error) {
	page, err := stealth.Page(browser)
	if err != nil {
		return "", err
	}
	defer page.MustClose()

	err = rod.Try(func() {
		page = page.Timeout(90 * time.Second)
		zap.L().Info("navigating", zap.String("url", pageURL))
		page.MustNavigate(pageURL)
		page.MustWaitStable()

		if waitSelector != "" {
			zap.L().Debug("waiting for content", zap.String("selector", waitSelector))
			page.MustElement(waitSelector)
		}
		html = page.MustHTML()
	})
	return html, err
}
