package tvmaze

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"showsearch/internal/domain"
)

// DefaultBaseURL is the public TVmaze API endpoint.
const DefaultBaseURL = "https://api.tvmaze.com"

// Client talks to the TVmaze REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a client using the provided HTTP client. The baseURL can be
// overridden for testing; if empty the public API endpoint is used.
func NewClient(httpClient *http.Client, baseURL, userAgent string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  strings.TrimSpace(userAgent),
	}
}

// Search returns the shows matching query in the order the API ranks them.
// The query is sent as-is apart from percent-encoding.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResultItem, error) {
	endpoint := c.baseURL + "/search/shows?q=" + url.QueryEscape(query)

	var payload []searchHit
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("tvmaze search: %w", err)
	}

	return lo.Map(payload, func(hit searchHit, _ int) domain.SearchResultItem {
		return domain.SearchResultItem{
			ShowID:   hit.Show.ID,
			Name:     hit.Show.Name,
			ImageURL: hit.Show.Image.medium(),
		}
	}), nil
}

// Show retrieves metadata for a single show. The summary is returned as the
// API serves it, markup included.
func (c *Client) Show(ctx context.Context, id int) (domain.ShowDetail, error) {
	endpoint := c.baseURL + "/shows/" + strconv.Itoa(id)

	var payload showPayload
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return domain.ShowDetail{}, fmt.Errorf("tvmaze show %d: %w", id, err)
	}

	return domain.ShowDetail{
		ShowID:      payload.ID,
		Name:        payload.Name,
		ImageURL:    payload.Image.original(),
		SummaryHTML: lo.FromPtr(payload.Summary),
	}, nil
}

// Cast retrieves the cast of a show in API order.
func (c *Client) Cast(ctx context.Context, id int) ([]domain.CastMember, error) {
	endpoint := c.baseURL + "/shows/" + strconv.Itoa(id) + "/cast"

	var payload []castCredit
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("tvmaze cast %d: %w", id, err)
	}

	return lo.Map(payload, func(credit castCredit, _ int) domain.CastMember {
		return domain.CastMember{
			PersonID:       credit.Person.ID,
			PersonName:     credit.Person.Name,
			PersonImageURL: credit.Person.Image.medium(),
			CharacterName:  credit.Character.Name,
		}
	}), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type searchHit struct {
	Show struct {
		ID    int           `json:"id"`
		Name  string        `json:"name"`
		Image *imagePayload `json:"image"`
	} `json:"show"`
}

type showPayload struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Image   *imagePayload `json:"image"`
	Summary *string       `json:"summary"`
}

type castCredit struct {
	Person struct {
		ID    int           `json:"id"`
		Name  string        `json:"name"`
		Image *imagePayload `json:"image"`
	} `json:"person"`
	Character struct {
		Name string `json:"name"`
	} `json:"character"`
}

// imagePayload is null in responses for entries without artwork.
type imagePayload struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

func (i *imagePayload) medium() string {
	if i == nil {
		return ""
	}
	return i.Medium
}

func (i *imagePayload) original() string {
	if i == nil {
		return ""
	}
	return i.Original
}
