package main

import (
	"fmt"
	"strings"

	"github.com/lox/pokertables/internal/tui"
	"github.com/lox/pokertables/poker"
)

// EvalCmd evaluates seven cards and prints the best five-card hand.
type EvalCmd struct {
	Cards []string `arg:"" help:"Seven cards, e.g. As Kd Qh Jc Tc 2s 3h"`
}

func (c *EvalCmd) Run(globals *Globals) error {
	if _, err := globals.logger("info"); err != nil {
		return err
	}
	cards, err := poker.ParseCards(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}
	hand, err := poker.EvaluateCards(cards...)
	if err != nil {
		return err
	}

	ranks := make([]string, len(hand.Ranks))
	for i, r := range hand.Ranks {
		ranks[i] = r.String()
	}
	fmt.Printf("%s %s\n", tui.FormatCards(cards), tui.FormatHand(hand))
	fmt.Printf("category: %s\nranks:    %s\n", hand.Category, strings.Join(ranks, ", "))
	return nil
}
