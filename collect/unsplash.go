package collect

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// UnsplashSource searches the Unsplash photo API (free tier, 50 req/hour).
type UnsplashSource struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewUnsplashSource(apiKey string) *UnsplashSource {
	return &UnsplashSource{
		apiKey:  apiKey,
		baseURL: "https://api.unsplash.com",
		client:  newHTTPClient(),
	}
}

func (s *UnsplashSource) Name() string { return "unsplash" }

type unsplashResult struct {
	Results []struct {
		ID   string `json:"id"`
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// Search returns one page of landscape-oriented results for the query.
func (s *UnsplashSource) Search(query string, perPage, page int) ([]Photo, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("orientation", "landscape")

	req, err := http.NewRequest("GET", s.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("unsplash rate limit exceeded, wait one hour")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unsplash returned status %d: %s", resp.StatusCode, string(body))
	}

	var result unsplashResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("unable to parse unsplash response: %w", err)
	}

	photos := make([]Photo, 0, len(result.Results))
	for _, item := range result.Results {
		photos = append(photos, Photo{ID: item.ID, DownloadURL: item.URLs.Regular})
	}
	return photos, nil
}
