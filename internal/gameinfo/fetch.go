package gameinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"poe2guide/pkg/models"
)

// SteamAppID is the Path of Exile 2 Steam application id.
const SteamAppID = 2694490

const (
	defaultUserAgent = "poe2-campaignQSguide"
	requestTimeout   = 20 * time.Second
)

const (
	steamNewsURL        = "https://api.steampowered.com/ISteamNews/GetNewsForApp/v2/?appid=2694490&count=200&maxlength=1"
	steamPlayersURL     = "https://api.steampowered.com/ISteamUserStats/GetNumberOfCurrentPlayers/v1/?appid=2694490"
	tradeLeaguesURL     = "https://www.pathofexile.com/api/trade2/data/leagues"
	contentIndexURL     = "https://pathofexile2.com/internal-api/content.json"
	announcementURL     = "https://pathofexile2.com/internal-api/content/league-announcement"
	announcementBaseURL = "https://pathofexile2.com/"
)

// Patch versions look like "0.3", "0.2.1" or "0.1.0f" inside news titles.
var versionRegex = regexp.MustCompile(`(?i)\b0\.\d+(?:\.\d+){0,2}[a-z]?\b`)

var (
	hardcoreLeagueRegex = regexp.MustCompile(`(?i)^HC\b`)
	baseLeagueRegex     = regexp.MustCompile(`(?i)^(Standard|Hardcore)$`)
)

// Client fetches the auxiliary game metadata from Steam and the Path of
// Exile APIs. URLs are fields so tests can point them at a local server.
type Client struct {
	HTTP      *http.Client
	UserAgent string

	NewsURL         string
	PlayersURL      string
	LeaguesURL      string
	ContentURL      string
	AnnouncementURL string
}

func NewClient() *Client {
	return &Client{
		HTTP:            &http.Client{Timeout: requestTimeout},
		UserAgent:       defaultUserAgent,
		NewsURL:         steamNewsURL,
		PlayersURL:      steamPlayersURL,
		LeaguesURL:      tradeLeaguesURL,
		ContentURL:      contentIndexURL,
		AnnouncementURL: announcementURL,
	}
}

// Fetch issues all five requests concurrently and assembles the result. Any
// single failure aborts the whole run; there is no partial output.
func (c *Client) Fetch(ctx context.Context) (*models.GameInfo, error) {
	var news, players, leagues, content, announcement gjson.Result

	g, ctx := errgroup.WithContext(ctx)
	fetch := func(url string, dst *gjson.Result) func() error {
		return func() error {
			result, err := c.fetchJSON(ctx, url)
			if err != nil {
				return err
			}
			*dst = result
			return nil
		}
	}
	g.Go(fetch(c.NewsURL, &news))
	g.Go(fetch(c.PlayersURL, &players))
	g.Go(fetch(c.LeaguesURL, &leagues))
	g.Go(fetch(c.ContentURL, &content))
	g.Go(fetch(c.AnnouncementURL, &announcement))

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Build(news, players, leagues, content, announcement, time.Now().UTC()), nil
}

func (c *Client) fetchJSON(ctx context.Context, url string) (gjson.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("build request %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("request failed (%d) for %s", resp.StatusCode, url)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("invalid JSON from %s", url)
	}
	return gjson.ParseBytes(body), nil
}

// Build assembles the output file from the five raw responses. Pure function
// so the parsing rules are testable without a network.
func Build(news, players, leagues, content, announcement gjson.Result, now time.Time) *models.GameInfo {
	newsItems := parseNews(news)

	var latestVersion *models.SteamVersion
	for _, item := range newsItems {
		if match := versionRegex.FindString(item.Title); match != "" && item.URL != "" {
			latestVersion = &models.SteamVersion{
				Version: match,
				Title:   item.Title,
				URL:     item.URL,
				Date:    item.Date,
			}
			break
		}
	}

	var currentPlayers *models.PlayerSnapshot
	if count := players.Get("response.player_count"); count.Exists() {
		currentPlayers = &models.PlayerSnapshot{
			PlayerCount: int(count.Int()),
			FetchedAt:   now.Format(time.RFC3339),
		}
	}

	latest := newsItems
	if len(latest) > 5 {
		latest = latest[:5]
	}

	return &models.GameInfo{
		GeneratedAt: now.Format(time.RFC3339),
		League:      parseLeague(leagues, content, announcement),
		Steam: models.SteamBlock{
			AppID:          SteamAppID,
			LatestVersion:  latestVersion,
			CurrentPlayers: currentPlayers,
			LatestNews:     latest,
		},
	}
}

func parseNews(news gjson.Result) []models.NewsItem {
	var items []models.NewsItem
	news.Get("appnews.newsitems").ForEach(func(_, item gjson.Result) bool {
		items = append(items, models.NewsItem{
			GID:       item.Get("gid").String(),
			Title:     item.Get("title").String(),
			URL:       item.Get("url").String(),
			Date:      item.Get("date").Int(),
			Author:    item.Get("author").String(),
			FeedLabel: item.Get("feedlabel").String(),
		})
		return true
	})
	return items
}

// parseLeague picks the active softcore poe2 trade league and pairs it with
// the announced start date. Both must be present for a league block to be
// emitted at all.
func parseLeague(leagues, content, announcement gjson.Result) *models.League {
	var active *models.League
	leagues.Get("result").ForEach(func(_, league gjson.Result) bool {
		if !league.IsObject() {
			return true
		}
		id := league.Get("id").String()
		if id == "" || league.Get("realm").String() != "poe2" {
			return true
		}
		if hardcoreLeagueRegex.MatchString(id) || baseLeagueRegex.MatchString(id) {
			return true
		}
		name := league.Get("text").String()
		if name == "" {
			name = id
		}
		active = &models.League{ID: id, Name: name}
		return false
	})
	if active == nil {
		return nil
	}

	startAt := announcement.Get("components.league-announcement.props.countdown.date").String()
	if startAt == "" {
		return nil
	}
	active.StartAt = startAt

	active.URL = announcementBaseURL
	if slug := content.Get("data.league-announcement.slug").String(); slug != "" {
		active.URL = announcementBaseURL + slug
	}
	return active
}

// WriteFile renders the game info as pretty-printed JSON with a trailing
// newline, creating parent directories as needed.
func WriteFile(path string, info *models.GameInfo) error {
	out, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal game info: %w", err)
	}
	out = append(out, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write game info: %w", err)
	}
	return nil
}
