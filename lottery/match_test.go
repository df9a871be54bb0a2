package lottery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thanawat/thailotto-api/lotteryparser/entities"
)

func drawView() *entities.DrawView {
	return &entities.DrawView{
		DrawDateISO: "2026-01-02",
		FirstPrize:  "835492",
		Front3:      []string{"583", "142"},
		Last3:       []string{"927", "456"},
		Last2:       "81",
		Prizes: []entities.PrizeTier{
			{ID: "prizeFirst", Name: "รางวัลที่ 1", Numbers: []string{"835492"}, Amount: "6,000,000"},
			{ID: "prizeSecond", Name: "รางวัลที่ 2", Numbers: []string{"104873", "662091"}, Amount: "200,000"},
		},
	}
}

func TestMatchTicketFirstPrize(t *testing.T) {
	matches, err := MatchTicket(drawView(), "835492")
	require.NoError(t, err)

	// The winning number surfaces twice: once as the first-prize check and
	// once through the tier it appears in.
	require.Len(t, matches, 2)
	assert.Equal(t, MatchFirstPrize, matches[0].Type)
	assert.Equal(t, "835492", matches[0].Number)
	assert.Equal(t, "6,000,000", matches[0].Amount)
	assert.Equal(t, MatchFull, matches[1].Type)
	assert.Equal(t, "6,000,000", matches[1].Amount)
}

func TestMatchTicketSecondPrizeTier(t *testing.T) {
	matches, err := MatchTicket(drawView(), "662091")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, MatchFull, matches[0].Type)
	assert.Equal(t, "รางวัลที่ 2", matches[0].Name)
	assert.Equal(t, "200,000", matches[0].Amount)
}

func TestMatchTicketFront3(t *testing.T) {
	matches, err := MatchTicket(drawView(), "142000")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, MatchFront3, matches[0].Type)
	assert.Equal(t, "142", matches[0].Number)
	assert.Equal(t, "4,000", matches[0].Amount)
}

func TestMatchTicketLast3(t *testing.T) {
	matches, err := MatchTicket(drawView(), "000927")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, MatchLast3, matches[0].Type)
	assert.Equal(t, "927", matches[0].Number)
}

func TestMatchTicketLast2(t *testing.T) {
	matches, err := MatchTicket(drawView(), "000081")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, MatchLast2, matches[0].Type)
	assert.Equal(t, "81", matches[0].Number)
	assert.Equal(t, "2,000", matches[0].Amount)
}

func TestMatchTicketMultipleCategories(t *testing.T) {
	// Front 3 and last 2 both hit; the categories are independent.
	matches, err := MatchTicket(drawView(), "583081")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, MatchFront3, matches[0].Type)
	assert.Equal(t, MatchLast2, matches[1].Type)
}

func TestMatchTicketNoWin(t *testing.T) {
	matches, err := MatchTicket(drawView(), "999999")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatchTicketEmptyDraw(t *testing.T) {
	view := &entities.DrawView{Front3: []string{}, Last3: []string{}}
	matches, err := MatchTicket(view, "123456")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatchTicketInvalid(t *testing.T) {
	tests := []struct {
		name   string
		ticket string
	}{
		{"too short", "12345"},
		{"too long", "1234567"},
		{"letters", "12a456"},
		{"empty", ""},
		{"spaces", "123 56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MatchTicket(drawView(), tt.ticket)
			assert.ErrorIs(t, err, ErrInvalidTicket)
		})
	}
}
