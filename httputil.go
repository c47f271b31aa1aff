package breakeven

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/breakeven/date"
)

// http utils to deal with the market data services.

// requestTimeout bounds a single request so a hung fetch cannot stall the run.
const requestTimeout = 30 * time.Second

// diskCache implements a simple disk cache for HTTP responses.
//
// The cache key embeds today's date, so cached responses expire daily: price
// history queried twice the same day is served from disk, tomorrow it is
// fetched again.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := fmt.Sprintf("%x", sha1.Sum(fmt.Appendf(nil, "%s %s %s", date.Today(), req.Method, req.URL)))

	if resp, err := c.read(key, req); err == nil {
		return resp, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		// only successful responses are worth keeping
		return resp, nil
	}
	if err := c.write(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// read retrieves a cached response from disk.
func (c *diskCache) read(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// write stores a response to the disk cache.
func (c *diskCache) write(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(os.TempDir(), key), content, 0644)
}

// cachedClient returns a client with a request timeout and a daily-expiring cache.
func cachedClient() *http.Client {
	return &http.Client{
		Timeout:   requestTimeout,
		Transport: &diskCache{base: http.DefaultTransport},
	}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into data.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
