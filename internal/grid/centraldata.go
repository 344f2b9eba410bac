package grid

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrGraphQL is returned when a Central Data response carries GraphQL errors
// or no data member.
var ErrGraphQL = errors.New("GRID GraphQL error")

// DefaultMaxPages bounds allSeries pagination.
const DefaultMaxPages = 50

const titlesQuery = `
query Titles {
  titles {
    id
    name
  }
}`

const allSeriesByTournamentQuery = `
query AllSeries($tournamentId: ID!, $after: Cursor) {
  allSeries(
    filter: { tournament: { id: { in: [$tournamentId] }, includeChildren: { equals: true } } }
    orderBy: StartTimeScheduled
    after: $after
  ) {
    edges {
      node {
        id
        startTimeScheduled
        teams {
          baseInfo { id name }
        }
        tournament { id name }
        title { id nameShortened }
      }
    }
    pageInfo { endCursor hasNextPage }
  }
}`

// Title is one game title known to Central Data.
type Title struct {
	ID   string
	Name string
}

// SeriesInfo is the Central Data view of a scheduled series.
type SeriesInfo struct {
	ID                 string
	StartTimeScheduled string
	TournamentName     string
	TitleShort         string
	Teams              []string
}

// CentralData queries the GRID Central Data GraphQL endpoint.
type CentralData struct {
	c *Client
}

// NewCentralData wraps a client whose base URL is the GraphQL endpoint.
func NewCentralData(c *Client) *CentralData {
	return &CentralData{c: c}
}

// Query runs a GraphQL query and returns the "data" member.
func (cd *CentralData) Query(ctx context.Context, query string, vars map[string]any) (gjson.Result, error) {
	if vars == nil {
		vars = map[string]any{}
	}
	body, err := cd.c.PostJSON(ctx, "", map[string]any{"query": query, "variables": vars})
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON response", ErrGraphQL)
	}
	resp := gjson.ParseBytes(body)
	if errs := resp.Get("errors"); errs.IsArray() && len(errs.Array()) > 0 {
		return gjson.Result{}, fmt.Errorf("%w: %s", ErrGraphQL, errs.Raw)
	}
	data := resp.Get("data")
	if !data.Exists() {
		return gjson.Result{}, fmt.Errorf("%w: unexpected response: %.200s", ErrGraphQL, string(body))
	}
	return data, nil
}

// Titles lists every title.
func (cd *CentralData) Titles(ctx context.Context) ([]Title, error) {
	data, err := cd.Query(ctx, titlesQuery, nil)
	if err != nil {
		return nil, err
	}
	var out []Title
	for _, t := range data.Get("titles").Array() {
		out = append(out, Title{ID: t.Get("id").String(), Name: t.Get("name").String()})
	}
	return out, nil
}

// SeriesByTournament pages through allSeries for a tournament. A non-empty
// team keeps only series where some team name contains it, case-insensitively.
// maxPages <= 0 uses DefaultMaxPages.
func (cd *CentralData) SeriesByTournament(ctx context.Context, tournamentID, team string, maxPages int) ([]SeriesInfo, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	filter := strings.ToLower(strings.TrimSpace(team))

	var out []SeriesInfo
	after := ""
	for page := 0; page < maxPages; page++ {
		vars := map[string]any{"tournamentId": tournamentID}
		if after != "" {
			vars["after"] = after
		}
		data, err := cd.Query(ctx, allSeriesByTournamentQuery, vars)
		if err != nil {
			return nil, fmt.Errorf("allSeries page %d: %w", page+1, err)
		}

		conn := data.Get("allSeries")
		for _, edge := range conn.Get("edges").Array() {
			s := edge.Get("node")
			var teams []string
			for _, t := range s.Get("teams").Array() {
				if name := strings.TrimSpace(t.Get("baseInfo.name").String()); name != "" {
					teams = append(teams, name)
				}
			}
			if filter != "" && !anyContains(teams, filter) {
				continue
			}
			out = append(out, SeriesInfo{
				ID:                 s.Get("id").String(),
				StartTimeScheduled: s.Get("startTimeScheduled").String(),
				TournamentName:     s.Get("tournament.name").String(),
				TitleShort:         s.Get("title.nameShortened").String(),
				Teams:              teams,
			})
		}

		if !conn.Get("pageInfo.hasNextPage").Bool() {
			break
		}
		after = conn.Get("pageInfo.endCursor").String()
		if after == "" {
			break
		}
	}
	return out, nil
}

func anyContains(names []string, sub string) bool {
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), sub) {
			return true
		}
	}
	return false
}
