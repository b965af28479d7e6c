// Package fetch downloads remote archives so they can be extracted locally.
package fetch

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/thought-machine/unjar/src/cli"
	logger "github.com/thought-machine/unjar/src/cli/logging"
)

var log = logger.Log

var httpClient = newClient()

func newClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = &cli.HTTPLogWrapper{Log: log}
	client.RetryMax = 3
	client.HTTPClient.Timeout = 5 * time.Minute
	return client
}

// IsURL returns true if the given archive location should be downloaded rather than opened.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Download fetches the given URL into a new file in dir (or the default temp directory
// if dir is empty) and returns its name. The caller is responsible for removing it.
func Download(url, dir string) (string, error) {
	if strings.HasPrefix(url, "http:") {
		log.Warning("%s is not secure, you should really be using https", url)
	}
	log.Info("Downloading %s", url)
	resp, err := httpClient.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to download %s: got response %s", url, resp.Status)
	}
	f, err := os.CreateTemp(dir, "unjar-*-"+archiveName(url))
	if err != nil {
		return "", err
	}
	n, err := io.Copy(f, resp.Body)
	if err == nil {
		err = f.Close()
	} else {
		f.Close()
	}
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to download %s: %w", url, err)
	}
	log.Notice("Downloaded %s (%s)", url, humanize.Bytes(uint64(n)))
	return f.Name(), nil
}

// archiveName returns a filename to use for the archive at the given URL.
func archiveName(url string) string {
	if idx := strings.IndexAny(url, "?#"); idx != -1 {
		url = url[:idx]
	}
	if idx := strings.Index(url, "://"); idx != -1 {
		url = url[idx+3:]
	}
	if idx := strings.IndexByte(url, '/'); idx != -1 {
		if name := path.Base(url[idx:]); name != "/" && name != "." {
			return name
		}
	}
	return "archive.jar"
}

// SetTimeout changes the timeout applied to each download attempt.
func SetTimeout(timeout time.Duration) {
	httpClient.HTTPClient.Timeout = timeout
}
