// =============================================================================
// Business Data Validation Toolkit - Kaggle Dataset Client
// =============================================================================
//
// This module downloads a public Kaggle dataset and unpacks it locally, so the
// validator can be tried on real retail data.
//
// DOWNLOAD FLOW:
//   1. GET {base}/datasets/download/{owner}/{name} with HTTP basic auth
//      (Kaggle redirects to a signed storage URL; the client follows it)
//   2. Stream the archive to a temporary file in the destination directory
//   3. Extract every entry into the destination directory
//   4. Remove the archive
//
// Entries whose path would land outside the destination directory are
// rejected and abort the extraction.
//
// =============================================================================

package kaggle

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Client talks to the Kaggle public API.
type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client. httpClient may be nil to use a default client;
// timeouts are expected to come from the context passed to Download.
func NewClient(baseURL string, creds Credentials, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Download fetches a dataset archive and extracts it.
//
// PARAMETERS:
//   - ctx:     Bounds the whole download and extraction.
//   - dataset: The dataset reference, "owner/name".
//   - destDir: The directory to extract into. It is created if needed.
//
// RETURNS:
//   - The paths of the extracted files.
//   - An error if the request fails, the server does not answer 200, or the
//     archive is invalid.
func (c *Client) Download(ctx context.Context, dataset, destDir string) ([]string, error) {
	owner, name, ok := strings.Cut(dataset, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("invalid dataset reference %q: expected owner/name", dataset)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", destDir, err)
	}

	archive, err := os.CreateTemp(destDir, ".download-*.zip")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary archive: %w", err)
	}
	archivePath := archive.Name()
	defer os.Remove(archivePath)

	url := fmt.Sprintf("%s/datasets/download/%s/%s", c.baseURL, owner, name)
	c.logger.Info("downloading dataset", zap.String("dataset", dataset), zap.String("url", url))

	written, err := c.fetch(ctx, url, archive)
	if cerr := archive.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	c.logger.Debug("archive downloaded", zap.Int64("bytes", written))

	files, err := extractZip(ctx, archivePath, destDir)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", dataset, err)
	}

	c.logger.Info("dataset extracted", zap.String("dir", destDir), zap.Int("files", len(files)))
	return files, nil
}

// fetch streams the response body of an authenticated GET into w.
func (c *Client) fetch(ctx context.Context, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.creds.Username, c.creds.Key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("download failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to save archive: %w", err)
	}
	return n, nil
}

// extractZip extracts src into dest and returns the written file paths.
func extractZip(ctx context.Context, src, dest string) ([]string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return files, err
		}

		path, err := entryPath(root, f.Name)
		if err != nil {
			return files, err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0755); err != nil {
				return files, err
			}
			continue
		}

		if err := extractFile(f, path); err != nil {
			return files, err
		}
		files = append(files, path)
	}

	return files, nil
}

// entryPath resolves an archive entry name inside root.
func entryPath(root, name string) (string, error) {
	path := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(name) {
		return "", fmt.Errorf("archive entry %q escapes the destination directory", name)
	}
	return path, nil
}

func extractFile(f *zip.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
