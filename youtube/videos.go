package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
)

// videoListResponse is the part of a videos.list response the fetcher keeps.
type videoListResponse struct {
	Items []rawVideo `json:"items"`
}

// listVideos calls videos.list for one batch of ids. The request goes
// through the service's endpoint and HTTP client, but the body is decoded
// here so that snippet and statistics survive verbatim, zero counters
// included.
func (f *Fetcher) listVideos(ctx context.Context, ids []string) ([]rawVideo, error) {
	params := url.Values{}
	params.Set("alt", "json")
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", strings.Join(ids, ","))

	reqURL := googleapi.ResolveRelative(f.service.BasePath, "youtube/v3/videos") + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create videos request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer googleapi.CloseBody(resp)

	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, err
	}

	var page videoListResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode videos response: %w", err)
	}
	return page.Items, nil
}
