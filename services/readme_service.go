package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	readmeFetchTimeout = 15 * time.Second
	readmeMaxBytes     = 256 * 1024
)

// ReadmeService fetches README.md content for GitHub repository URLs via the
// raw content host.
type ReadmeService struct {
	HTTPClient *http.Client
}

func NewReadmeService() *ReadmeService {
	return &ReadmeService{
		HTTPClient: &http.Client{Timeout: readmeFetchTimeout},
	}
}

// FetchReadme downloads the repository's README.md
func (s *ReadmeService) FetchReadme(ctx context.Context, repoURL string) (string, error) {
	rawURL, err := readmeRawURL(repoURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build README request: %w", err)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch README: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("README fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, readmeMaxBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read README body: %w", err)
	}
	return string(body), nil
}

// readmeRawURL maps https://github.com/{owner}/{repo} onto the raw README URL
func readmeRawURL(repoURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSuffix(strings.TrimSpace(repoURL), ".git"))
	if err != nil {
		return "", fmt.Errorf("invalid repository URL: %w", err)
	}
	if parsed.Host != "github.com" {
		return "", fmt.Errorf("unsupported repository host: %s", parsed.Host)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("repository URL is missing owner/name: %s", repoURL)
	}

	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/HEAD/README.md", parts[0], parts[1]), nil
}
