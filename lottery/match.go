// Package lottery derives consumer-facing views from draw results:
// ticket prize matching and countdowns to the next draw.
package lottery

import (
	"errors"
	"regexp"
	"slices"

	"github.com/thanawat/thailotto-api/lotteryparser/entities"
)

// ErrInvalidTicket reports a ticket number that is not exactly six digits.
var ErrInvalidTicket = errors.New("ticket number must be exactly 6 digits")

var ticketPattern = regexp.MustCompile(`^\d{6}$`)

// Match types returned by MatchTicket.
const (
	MatchFirstPrize = "first_prize"
	MatchFull       = "full"
	MatchFront3     = "front_3"
	MatchLast3      = "last_3"
	MatchLast2      = "last_2"
)

// PrizeMatch is one prize a ticket won.
type PrizeMatch struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Number string `json:"number"`
	Amount string `json:"amount"`
}

// Fixed reward amounts for the running-number categories. The upstream
// payload carries these too, but the amounts are statutory and the
// categories must match even when a draw omits one list.
const (
	firstPrizeAmount = "6,000,000"
	front3Amount     = "4,000"
	last3Amount      = "4,000"
	last2Amount      = "2,000"
)

// MatchTicket checks a six-digit ticket against every prize category of a
// draw. Categories are independent: one ticket can win in several at once,
// and the first prize can surface twice when the draw's tier list repeats
// it.
func MatchTicket(view *entities.DrawView, ticket string) ([]PrizeMatch, error) {
	if !ticketPattern.MatchString(ticket) {
		return nil, ErrInvalidTicket
	}

	matches := []PrizeMatch{}

	if view.FirstPrize != "" && ticket == view.FirstPrize {
		matches = append(matches, PrizeMatch{
			Type:   MatchFirstPrize,
			Name:   "First Prize",
			Number: view.FirstPrize,
			Amount: firstPrizeAmount,
		})
	}

	// Full match against every tier the draw carries, at the tier's own
	// reward amount.
	for _, tier := range view.Prizes {
		if slices.Contains(tier.Numbers, ticket) {
			matches = append(matches, PrizeMatch{
				Type:   MatchFull,
				Name:   tier.Name,
				Number: ticket,
				Amount: tier.Amount,
			})
		}
	}

	if slices.Contains(view.Front3, ticket[:3]) {
		matches = append(matches, PrizeMatch{
			Type:   MatchFront3,
			Name:   "Front 3 Digits",
			Number: ticket[:3],
			Amount: front3Amount,
		})
	}

	if slices.Contains(view.Last3, ticket[3:]) {
		matches = append(matches, PrizeMatch{
			Type:   MatchLast3,
			Name:   "Last 3 Digits",
			Number: ticket[3:],
			Amount: last3Amount,
		})
	}

	if view.Last2 != "" && ticket[4:] == view.Last2 {
		matches = append(matches, PrizeMatch{
			Type:   MatchLast2,
			Name:   "Last 2 Digits",
			Number: view.Last2,
			Amount: last2Amount,
		})
	}

	return matches, nil
}
