package poker

// HoleCardStrength is a coarse preflop rating of a two-card starting hand.
type HoleCardStrength string

const (
	StrengthPremium HoleCardStrength = "Premium"
	StrengthStrong  HoleCardStrength = "Strong"
	StrengthMedium  HoleCardStrength = "Medium"
	StrengthWeak    HoleCardStrength = "Weak"
	StrengthTrash   HoleCardStrength = "Trash"
	StrengthUnknown HoleCardStrength = "Unknown"
)

// RateHoleCards gives a quick preflop rating for display purposes.
// Premium is JJ+ and AK, Strong is TT and AQ/AJ, Medium is 77-99 and suited
// broadway, Weak is small pairs and suited connectors, the rest is Trash.
func RateHoleCards(hole []Card) HoleCardStrength {
	if len(hole) != 2 || !hole[0].Valid() || !hole[1].Valid() || hole[0] == hole[1] {
		return StrengthUnknown
	}

	low, high := hole[0].Rank, hole[1].Rank
	if low > high {
		low, high = high, low
	}
	pair := low == high
	suited := hole[0].Suit == hole[1].Suit

	switch {
	case pair && low >= Jack, low == King && high == Ace:
		return StrengthPremium
	case pair && low == Ten, high == Ace && (low == Queen || low == Jack):
		return StrengthStrong
	case pair && low >= Seven, suited && low >= Ten:
		return StrengthMedium
	case pair, suited && high-low <= 2:
		return StrengthWeak
	}
	return StrengthTrash
}
