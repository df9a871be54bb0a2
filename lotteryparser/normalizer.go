package lotteryparser

import (
	"fmt"
	"strconv"
	"time"

	"github.com/thanawat/thailotto-api/lotteryparser/entities"
	"github.com/thanawat/thailotto-api/thaidate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fixed ids the upstream API uses for the quick-check number categories.
const (
	prizeFirstID = "prizeFirst"
	frontThreeID = "runningNumberFrontThree"
	backThreeID  = "runningNumberBackThree"
	backTwoID    = "runningNumberBackTwo"
)

// DrawTime is the time of day shown alongside every draw.
const DrawTime = "15:00"

var rewardPrinter = message.NewPrinter(language.English)

// Normalize flattens a raw upstream response into a DrawRecord. Missing
// prize or running-number entries yield empty defaults rather than errors;
// the upstream payload is duck-typed and partial data must still cache.
func Normalize(resp *entities.UpstreamResponse, isLatest bool, fetchedAt time.Time) *entities.DrawRecord {
	return &entities.DrawRecord{
		DrawDate:       thaidate.ParseThaiDate(resp.Date),
		DrawDateThai:   resp.Date,
		FirstPrize:     firstNumber(findByID(resp.Prizes, prizeFirstID)),
		Front3:         allNumbers(findByID(resp.RunningNumbers, frontThreeID)),
		Last3:          allNumbers(findByID(resp.RunningNumbers, backThreeID)),
		Last2:          firstNumber(findByID(resp.RunningNumbers, backTwoID)),
		Prizes:         clonePrizes(resp.Prizes),
		RunningNumbers: clonePrizes(resp.RunningNumbers),
		IsLatest:       isLatest,
		FetchedAt:      fetchedAt,
	}
}

// BuildView renders a cached record for API consumers: reward amounts with
// thousands separators and the waiting/updated status derived from the
// expected draw date at the given instant. A non-numeric reward fails the
// whole view; it means the upstream schema drifted and the tier amounts
// can no longer be trusted.
func BuildView(rec *entities.DrawRecord, now time.Time) (*entities.DrawView, error) {
	tiers := make([]entities.PrizeTier, 0, len(rec.Prizes))
	for _, p := range rec.Prizes {
		amount, err := FormatReward(p.Reward)
		if err != nil {
			return nil, fmt.Errorf("prize %q: %w", p.ID, err)
		}
		numbers := p.Number
		if numbers == nil {
			numbers = []string{}
		}
		tiers = append(tiers, entities.PrizeTier{
			ID:      p.ID,
			Name:    p.Name,
			Numbers: numbers,
			Amount:  amount,
		})
	}

	return &entities.DrawView{
		DrawDate:     thaidate.FormatEnglishDate(rec.DrawDate),
		DrawDateISO:  rec.DrawDate,
		DrawDateThai: rec.DrawDateThai,
		DrawTime:     DrawTime,
		IsLatest:     rec.IsLatest,
		Status:       DrawStatus(rec.DrawDate, now),
		FirstPrize:   rec.FirstPrize,
		Front3:       rec.Front3,
		Last3:        rec.Last3,
		Last2:        rec.Last2,
		Prizes:       tiers,
		FetchedAt:    rec.FetchedAt,
	}, nil
}

// DrawStatus reports whether a result covers the draw currently expected:
// "updated" when the result date is on or after the expected draw date,
// "waiting" when a newer draw should exist but has not posted yet. Pure
// function of the result date and the current instant.
func DrawStatus(drawDateISO string, now time.Time) string {
	resultDate, err := time.ParseInLocation("2006-01-02", drawDateISO, thaidate.Location())
	if err != nil {
		return entities.StatusWaiting
	}

	if !resultDate.Before(thaidate.ExpectedDrawDate(now)) {
		return entities.StatusUpdated
	}
	return entities.StatusWaiting
}

// FormatReward renders an integer reward string with thousands separators,
// e.g. "6000000" -> "6,000,000".
func FormatReward(reward string) (string, error) {
	n, err := strconv.ParseInt(reward, 10, 64)
	if err != nil {
		return "", fmt.Errorf("non-numeric reward %q: %w", reward, err)
	}
	return rewardPrinter.Sprintf("%d", n), nil
}

func findByID(prizes []entities.UpstreamPrize, id string) *entities.UpstreamPrize {
	for i := range prizes {
		if prizes[i].ID == id {
			return &prizes[i]
		}
	}
	return nil
}

func firstNumber(p *entities.UpstreamPrize) string {
	if p == nil || len(p.Number) == 0 {
		return ""
	}
	return p.Number[0]
}

func allNumbers(p *entities.UpstreamPrize) []string {
	if p == nil || p.Number == nil {
		return []string{}
	}
	return append([]string{}, p.Number...)
}

func clonePrizes(prizes []entities.UpstreamPrize) []entities.UpstreamPrize {
	if prizes == nil {
		return []entities.UpstreamPrize{}
	}
	return append([]entities.UpstreamPrize{}, prizes...)
}
