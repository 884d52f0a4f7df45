package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// HandCategory enumerates the categories of poker hands ordered from weakest to strongest.
type HandCategory uint8

const (
	HighCard HandCategory = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryIdents = [...]string{
	"HighCard", "OnePair", "TwoPair", "ThreeOfAKind", "Straight",
	"Flush", "FullHouse", "FourOfAKind", "StraightFlush",
}

var categoryNames = [...]string{
	"High Card", "One Pair", "Two Pair", "Three of a Kind", "Straight",
	"Flush", "Full House", "Four of a Kind", "Straight Flush",
}

// categoryArity is the length of the tie-break rank list for each category.
var categoryArity = [...]int{5, 4, 3, 3, 1, 5, 2, 2, 1}

// String returns a human-readable category name.
func (c HandCategory) String() string {
	if int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// Arity returns the number of tie-break ranks an EvaluatedHand of this category carries.
func (c HandCategory) Arity() int {
	if int(c) >= len(categoryArity) {
		return 0
	}
	return categoryArity[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c HandCategory) MarshalText() ([]byte, error) {
	if int(c) >= len(categoryIdents) {
		return nil, fmt.Errorf("poker: unknown hand category %d", c)
	}
	return []byte(categoryIdents[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *HandCategory) UnmarshalText(text []byte) error {
	for i, ident := range categoryIdents {
		if ident == string(text) {
			*c = HandCategory(i)
			return nil
		}
	}
	return fmt.Errorf("poker: unknown hand category %q", text)
}

// EvaluatedHand is the best five-card hand found in a set of seven cards:
// its category plus the ranks that break ties within that category, most
// significant first.
type EvaluatedHand struct {
	Category HandCategory `json:"category"`
	Ranks    []Rank       `json:"ranks"`
}

// String returns e.g. "Full House (K, 5)".
func (h EvaluatedHand) String() string {
	parts := make([]string, len(h.Ranks))
	for i, r := range h.Ranks {
		parts[i] = string(r.Symbol())
	}
	return fmt.Sprintf("%s (%s)", h.Category, strings.Join(parts, ", "))
}

// Evaluate returns the best five-card hand that can be made from seven cards.
// The cards must be distinct; the result does not depend on their order.
func Evaluate(cards [7]Card) EvaluatedHand {
	var suitMasks [4]uint16
	var counts [NumRanks]uint8
	for _, c := range cards {
		suitMasks[c.Suit] |= 1 << c.Rank
		counts[c.Rank]++
	}
	rankMask := suitMasks[0] | suitMasks[1] | suitMasks[2] | suitMasks[3]
	ranks := sortedRanks(counts)

	for _, mask := range suitMasks {
		if bits.OnesCount16(mask) < 5 {
			continue
		}
		if high, ok := straightHigh(mask); ok {
			return EvaluatedHand{Category: StraightFlush, Ranks: []Rank{high}}
		}
	}

	if quad, ok := highestWithCount(counts, 4, 4, nil); ok {
		return EvaluatedHand{
			Category: FourOfAKind,
			Ranks:    append([]Rank{quad}, kickers(ranks, 1, quad)...),
		}
	}

	if trip, ok := highestWithCount(counts, 3, 4, nil); ok {
		if pair, ok := highestWithCount(counts, 2, 4, []Rank{trip}); ok {
			return EvaluatedHand{Category: FullHouse, Ranks: []Rank{trip, pair}}
		}
	}

	for _, mask := range suitMasks {
		if bits.OnesCount16(mask) >= 5 {
			return EvaluatedHand{Category: Flush, Ranks: topRanks(mask, 5)}
		}
	}

	if high, ok := straightHigh(rankMask); ok {
		return EvaluatedHand{Category: Straight, Ranks: []Rank{high}}
	}

	if trip, ok := highestWithCount(counts, 3, 3, nil); ok {
		return EvaluatedHand{
			Category: ThreeOfAKind,
			Ranks:    append([]Rank{trip}, kickers(ranks, 2, trip)...),
		}
	}

	if high, ok := highestWithCount(counts, 2, 2, nil); ok {
		if low, ok := highestWithCount(counts, 2, 2, []Rank{high}); ok {
			return EvaluatedHand{
				Category: TwoPair,
				Ranks:    append([]Rank{high, low}, kickers(ranks, 1, high, low)...),
			}
		}
		return EvaluatedHand{
			Category: OnePair,
			Ranks:    append([]Rank{high}, kickers(ranks, 3, high)...),
		}
	}

	return EvaluatedHand{Category: HighCard, Ranks: kickers(ranks, 5)}
}

// EvaluateCards validates untrusted input before calling Evaluate: exactly
// seven valid, distinct cards are required.
func EvaluateCards(cards ...Card) (EvaluatedHand, error) {
	if len(cards) != 7 {
		return EvaluatedHand{}, fmt.Errorf("%w: got %d, want 7", ErrWrongCardCount, len(cards))
	}
	var seen [DeckSize]bool
	var hand [7]Card
	for i, c := range cards {
		if !c.Valid() {
			return EvaluatedHand{}, fmt.Errorf("%w: %v", ErrInvalidCard, c)
		}
		if seen[c.index()] {
			return EvaluatedHand{}, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen[c.index()] = true
		hand[i] = c
	}
	return Evaluate(hand), nil
}

// CompareRanks compares two tie-break lists position by position. The first
// difference decides; if one list runs out first the hands compare equal.
// It returns 1 if a is better, -1 if b is better and 0 otherwise.
func CompareRanks(a, b []Rank) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		switch {
		case a[i] > b[i]:
			return 1
		case a[i] < b[i]:
			return -1
		}
	}
	return 0
}

// Compare orders two evaluated hands by category and then by tie-break ranks.
// It returns 1 if a wins, -1 if b wins, 0 for a tie.
func Compare(a, b EvaluatedHand) int {
	switch {
	case a.Category > b.Category:
		return 1
	case a.Category < b.Category:
		return -1
	}
	return CompareRanks(a.Ranks, b.Ranks)
}

// sortedRanks expands rank counts into a descending list with duplicates.
func sortedRanks(counts [NumRanks]uint8) []Rank {
	ranks := make([]Rank, 0, 7)
	for r := int(Ace); r >= int(Two); r-- {
		for i := uint8(0); i < counts[r]; i++ {
			ranks = append(ranks, Rank(r))
		}
	}
	return ranks
}

// highestWithCount scans ranks from Ace down and returns the first whose
// count lies within [lo, hi], skipping excluded ranks.
func highestWithCount(counts [NumRanks]uint8, lo, hi uint8, exclude []Rank) (Rank, bool) {
	for r := int(Ace); r >= int(Two); r-- {
		if counts[r] < lo || counts[r] > hi || containsRank(exclude, Rank(r)) {
			continue
		}
		return Rank(r), true
	}
	return 0, false
}

// kickers takes the first n ranks from a descending list, skipping used ranks.
func kickers(ranks []Rank, n int, used ...Rank) []Rank {
	out := make([]Rank, 0, n)
	for _, r := range ranks {
		if len(out) == n {
			break
		}
		if containsRank(used, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func containsRank(ranks []Rank, r Rank) bool {
	for _, x := range ranks {
		if x == r {
			return true
		}
	}
	return false
}

// topRanks returns the n highest ranks set in the mask, descending.
func topRanks(mask uint16, n int) []Rank {
	out := make([]Rank, 0, n)
	for len(out) < n && mask != 0 {
		top := bits.Len16(mask) - 1
		out = append(out, Rank(top))
		mask &^= 1 << top
	}
	return out
}

const wheelMask = 1<<Ace | 1<<Two | 1<<Three | 1<<Four | 1<<Five

// straightHigh returns the high card of the best straight in a rank mask.
// A-2-3-4-5 counts as a Five-high straight.
func straightHigh(mask uint16) (Rank, bool) {
	for high := int(Ace); high >= int(Six); high-- {
		window := uint16(0x1F) << (high - 4)
		if mask&window == window {
			return Rank(high), true
		}
	}
	if mask&wheelMask == wheelMask {
		return Five, true
	}
	return 0, false
}
