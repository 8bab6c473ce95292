package api

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/golang/glog"

	apierrors "github.com/diogo/webhookchat/internal/errors"
)

// ClipDownloadOptions configures where a reply clip is saved
type ClipDownloadOptions struct {
	// Directory is the destination directory (default: ~/.webhookchat/audio)
	Directory string
	// Filename is the output filename (taken from the URL if empty)
	Filename string
}

// DefaultClipDownloadOptions returns the default download options
func DefaultClipDownloadOptions() ClipDownloadOptions {
	homeDir, _ := os.UserHomeDir()
	return ClipDownloadOptions{
		Directory: filepath.Join(homeDir, ".webhookchat", "audio"),
	}
}

// maxClipSize caps a downloaded clip
const maxClipSize = 50 << 20

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// DownloadClip fetches the audio clip of a reply and writes it to disk.
// It returns the absolute path of the saved file.
func (c *WebhookClient) DownloadClip(ctx context.Context, url string, opts ClipDownloadOptions) (string, error) {
	if c.IsClosed() {
		return "", fmt.Errorf("client is closed")
	}
	if opts.Directory == "" {
		opts.Directory = DefaultClipDownloadOptions().Directory
	}

	if err := os.MkdirAll(opts.Directory, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg, audio/*;q=0.9, */*;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkErrorWithEndpoint("download clip", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", apierrors.NewAPIError(resp.StatusCode, url, "failed to download clip")
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "audio/") && !strings.HasPrefix(contentType, "application/octet-stream") {
		return "", fmt.Errorf("response is not audio: %s", contentType)
	}

	filename := opts.Filename
	if filename == "" {
		filename = clipFilename(url)
	}
	destPath := filepath.Join(opts.Directory, filename)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxClipSize))
	if err != nil {
		return "", apierrors.NewNetworkErrorWithEndpoint("read clip", url, err)
	}

	if err := os.WriteFile(destPath, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	glog.V(1).Infof("webhook: saved clip %s (%d bytes)", destPath, len(body))

	// Return absolute path (fallback to relative path if Abs fails)
	absPath, err := filepath.Abs(destPath)
	if err != nil {
		return destPath, nil
	}
	return absPath, nil
}

// clipFilename derives a filename from the clip URL, or falls back to a timestamp
func clipFilename(url string) string {
	urlParts := strings.Split(strings.Split(url, "?")[0], "/")
	lastPart := urlParts[len(urlParts)-1]
	if strings.HasSuffix(strings.ToLower(lastPart), ".mp3") && len(lastPart) > len(".mp3") {
		return sanitizeFilename(lastPart)
	}
	return fmt.Sprintf("reply_%s.mp3", time.Now().Format("20060102_150405"))
}

// sanitizeFilename removes invalid characters from filenames
func sanitizeFilename(name string) string {
	return strings.TrimSpace(invalidFilenameChars.ReplaceAllString(name, "_"))
}
