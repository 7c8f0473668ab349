package models

// GameInfo is the auxiliary metadata file written by cmd/gameinfo and read by
// the web UI. Field names are part of the file contract; keep them stable.
type GameInfo struct {
	GeneratedAt string     `json:"generated_at"`
	League      *League    `json:"league"`
	Steam       SteamBlock `json:"steam"`
}

type League struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	StartAt string `json:"start_at"`
}

type SteamBlock struct {
	AppID          int             `json:"appid"`
	LatestVersion  *SteamVersion   `json:"latest_version"`
	CurrentPlayers *PlayerSnapshot `json:"current_players"`
	LatestNews     []NewsItem      `json:"latest_news"`
}

type SteamVersion struct {
	Version string `json:"version"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Date    int64  `json:"date"`
}

type PlayerSnapshot struct {
	PlayerCount int    `json:"player_count"`
	FetchedAt   string `json:"fetched_at"`
}

type NewsItem struct {
	GID       string `json:"gid"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Date      int64  `json:"date"`
	Author    string `json:"author,omitempty"`
	FeedLabel string `json:"feedlabel,omitempty"`
}
