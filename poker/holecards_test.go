package poker

import (
	"testing"
)

func TestRateHoleCards(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		cards    string
		expected HoleCardStrength
	}{
		{"Pocket Aces", "As Ah", StrengthPremium},
		{"Pocket Jacks", "Jh Jd", StrengthPremium},
		{"Ace King offsuit", "Ac Kh", StrengthPremium},
		{"King Ace reversed", "Kh Ac", StrengthPremium},

		{"Pocket Tens", "Tc Th", StrengthStrong},
		{"Ace Queen offsuit", "Ac Qh", StrengthStrong},
		{"Ace Jack suited", "As Js", StrengthStrong},

		{"Pocket Sevens", "7h 7c", StrengthMedium},
		{"King Queen suited", "Ks Qs", StrengthMedium},
		{"Queen Jack suited", "Qd Jd", StrengthMedium},

		{"Pocket Twos", "2c 2h", StrengthWeak},
		{"Suited connectors 76s", "7h 6h", StrengthWeak},
		{"Suited one-gapper 53s", "5d 3d", StrengthWeak},

		{"Seven Two offsuit", "7c 2h", StrengthTrash},
		{"King Queen offsuit", "Kc Qh", StrengthTrash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RateHoleCards(MustParseCards(tt.cards)); got != tt.expected {
				t.Errorf("RateHoleCards(%s) = %s, want %s", tt.cards, got, tt.expected)
			}
		})
	}
}

func TestRateHoleCardsInvalid(t *testing.T) {
	t.Parallel()
	if got := RateHoleCards(MustParseCards("As")); got != StrengthUnknown {
		t.Errorf("single card rated %s, want Unknown", got)
	}
	if got := RateHoleCards(MustParseCards("As As")); got != StrengthUnknown {
		t.Errorf("duplicate card rated %s, want Unknown", got)
	}
	if got := RateHoleCards(nil); got != StrengthUnknown {
		t.Errorf("no cards rated %s, want Unknown", got)
	}
}
