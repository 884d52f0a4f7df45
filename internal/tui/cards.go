package tui

import (
	"strings"

	"github.com/lox/pokertables/poker"
)

// FormatCard renders a card in red or black.
func FormatCard(c poker.Card) string {
	if c.Suit == poker.Heart || c.Suit == poker.Diamond {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}

// FormatCards renders cards in brackets, e.g. "[As Kd]".
func FormatCards(cards []poker.Card) string {
	if len(cards) == 0 {
		return ""
	}
	formatted := make([]string, len(cards))
	for i, c := range cards {
		formatted[i] = FormatCard(c)
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// FormatHand renders an evaluated hand with its category highlighted.
func FormatHand(h poker.EvaluatedHand) string {
	return HandInfoStyle.Render(h.String())
}
