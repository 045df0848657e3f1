// Package ingest turns a submission (direct upload, plain URL, or a
// Google Drive share link) into a local readable video file. The variant
// is decided once at submission time; the job runner only ever sees the
// Source interface.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Liwei-Ji/DISE-AI/internal/logger"
)

// Kind identifies how a video entered the system
type Kind string

const (
	KindLocalUpload   Kind = "local_upload"
	KindDirectURL     Kind = "direct_url"
	KindSharedLinkURL Kind = "shared_link_url"
)

// Source produces a local readable video resource at dst.
// Fetch reports any download/transfer failure as a single error.
type Source interface {
	Kind() Kind
	Fetch(ctx context.Context, dst string) error
}

// SaveUpload streams an uploaded file to dst, returning the byte count.
// The destination is removed again if the copy fails partway.
func SaveUpload(r io.Reader, dst string) (int64, error) {
	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("stage upload: %w", err)
	}

	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return 0, fmt.Errorf("stage upload: %w", err)
	}

	return n, nil
}

// LocalUpload is an upload already staged at its final path by the handler
// (multipart readers do not outlive the request, so the copy happens
// synchronously at submission).
type LocalUpload struct {
	path string
}

// NewLocalUpload wraps a video file already staged at path
func NewLocalUpload(path string) LocalUpload {
	return LocalUpload{path: path}
}

func (LocalUpload) Kind() Kind { return KindLocalUpload }

// Fetch verifies the staged file is in place
func (u LocalUpload) Fetch(ctx context.Context, dst string) error {
	if u.path == dst {
		if _, err := os.Stat(dst); err != nil {
			return fmt.Errorf("staged upload missing: %w", err)
		}
		return nil
	}
	return os.Rename(u.path, dst)
}

// URLSource downloads a remote video. Google Drive share links are
// rewritten to the direct-download form at construction.
type URLSource struct {
	url  string
	kind Kind
}

// NewURLSource classifies a raw URL and returns the matching source
func NewURLSource(rawURL string) URLSource {
	if isDriveLink(rawURL) {
		return URLSource{url: driveDirectURL(rawURL), kind: KindSharedLinkURL}
	}
	return URLSource{url: rawURL, kind: KindDirectURL}
}

func (s URLSource) Kind() Kind { return s.kind }

// URL returns the effective download URL
func (s URLSource) URL() string { return s.url }

// Fetch downloads the remote video to dst. No timeout is applied: a
// stalled transfer blocks only its own job's worker.
func (s URLSource) Fetch(ctx context.Context, dst string) error {
	logger.Info("Downloading video", "url", s.url, "kind", string(s.kind))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return fmt.Errorf("download failed: %w", err)
	}

	logger.Info("Download complete", "url", s.url, "size", humanize.Bytes(uint64(n)))
	return nil
}

var drivePathID = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)

// isDriveLink reports whether the URL points at Google Drive
func isDriveLink(rawURL string) bool {
	return strings.Contains(rawURL, "drive.google.com")
}

// driveDirectURL rewrites a Drive share link (/file/d/<id>/view?usp=sharing
// or ?id=<id>) to the uc?export=download form. Unrecognizable links are
// returned unchanged and left to fail at download time.
func driveDirectURL(rawURL string) string {
	if m := drivePathID.FindStringSubmatch(rawURL); m != nil {
		return "https://drive.google.com/uc?export=download&id=" + m[1]
	}
	if u, err := url.Parse(rawURL); err == nil {
		if id := u.Query().Get("id"); id != "" {
			return "https://drive.google.com/uc?export=download&id=" + id
		}
	}
	return rawURL
}
