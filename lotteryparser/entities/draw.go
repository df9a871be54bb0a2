// Package entities defines the data structures for lottery draw results,
// both the raw upstream API payload and the normalized records persisted
// in the cache table.
package entities

import "time"

// UpstreamPrize is one prize category as returned by the upstream lottery
// API. The same shape is used for both the "prizes" and "runningNumbers"
// lists.
type UpstreamPrize struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Reward string   `json:"reward"`
	Amount int      `json:"amount"`
	Number []string `json:"number"`
}

// UpstreamResponse is the inner payload of an upstream API response.
type UpstreamResponse struct {
	Date           string          `json:"date"`
	Endpoint       string          `json:"endpoint"`
	Prizes         []UpstreamPrize `json:"prizes"`
	RunningNumbers []UpstreamPrize `json:"runningNumbers"`
}

// UpstreamPayload is the envelope returned by the upstream lottery API.
// Status is "success" for draws that exist and "error" otherwise.
type UpstreamPayload struct {
	Status   string           `json:"status"`
	Response UpstreamResponse `json:"response"`
}

// DrawRecord is the cached form of one lottery draw, keyed by DrawDate.
// At most one record has IsLatest set at any time.
type DrawRecord struct {
	DrawDate       string          `json:"draw_date"`
	DrawDateThai   string          `json:"draw_date_thai"`
	FirstPrize     string          `json:"first_prize"`
	Front3         []string        `json:"front_3"`
	Last3          []string        `json:"last_3"`
	Last2          string          `json:"last_2"`
	Prizes         []UpstreamPrize `json:"prizes"`
	RunningNumbers []UpstreamPrize `json:"running_numbers"`
	IsLatest       bool            `json:"is_latest"`
	FetchedAt      time.Time       `json:"fetched_at"`
}

// PrizeTier is a prize category with its reward amount rendered with
// thousands separators, ready for API consumers.
type PrizeTier struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	Numbers []string `json:"numbers"`
	Amount  string   `json:"amount"`
}

// Draw result status values. A result is "waiting" when the expected draw
// for the current date has not posted yet.
const (
	StatusWaiting = "waiting"
	StatusUpdated = "updated"
)

// DrawView is the API-facing rendering of a DrawRecord: English and Thai
// date texts, derived status, and prize tiers with formatted amounts.
type DrawView struct {
	DrawDate     string      `json:"drawDate"`
	DrawDateISO  string      `json:"drawDateIso"`
	DrawDateThai string      `json:"drawDateThai"`
	DrawTime     string      `json:"drawTime"`
	IsLatest     bool        `json:"isLatest"`
	Status       string      `json:"status"`
	FirstPrize   string      `json:"firstPrize"`
	Front3       []string    `json:"front3"`
	Last3        []string    `json:"last3"`
	Last2        string      `json:"last2"`
	Prizes       []PrizeTier `json:"prizes"`
	FetchedAt    time.Time   `json:"fetchedAt"`
}
