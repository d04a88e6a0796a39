package collect

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// PexelsSource searches the Pexels photo API (free tier, 200 req/hour).
type PexelsSource struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewPexelsSource(apiKey string) *PexelsSource {
	return &PexelsSource{
		apiKey:  apiKey,
		baseURL: "https://api.pexels.com/v1",
		client:  newHTTPClient(),
	}
}

func (s *PexelsSource) Name() string { return "pexels" }

type pexelsResult struct {
	Photos []struct {
		ID  int64 `json:"id"`
		Src struct {
			Large string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

// Search returns one page of landscape-oriented results for the query.
func (s *PexelsSource) Search(query string, perPage, page int) ([]Photo, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("orientation", "landscape")

	req, err := http.NewRequest("GET", s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("pexels rate limit exceeded, wait one hour")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("pexels returned status %d: %s", resp.StatusCode, string(body))
	}

	var result pexelsResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("unable to parse pexels response: %w", err)
	}

	photos := make([]Photo, 0, len(result.Photos))
	for _, item := range result.Photos {
		photos = append(photos, Photo{
			ID:          strconv.FormatInt(item.ID, 10),
			DownloadURL: item.Src.Large,
		})
	}
	return photos, nil
}
