package poker

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCard    = errors.New("poker: invalid card")
	ErrWrongCardCount = errors.New("poker: wrong number of cards")
	ErrDuplicateCard  = errors.New("poker: duplicate card")
)

// Suit is one of the four card suits. Suits have no ordering beyond identity.
type Suit uint8

const (
	Heart Suit = iota
	Diamond
	Club
	Spade
)

// Suits lists every suit in deck order.
var Suits = [...]Suit{Heart, Diamond, Club, Spade}

var suitNames = [...]string{"Heart", "Diamond", "Club", "Spade"}

func (s Suit) String() string {
	if int(s) >= len(suitNames) {
		return "Unknown"
	}
	return suitNames[s]
}

// Symbol returns the single-letter suit used in card notation ("h", "d", "c", "s").
func (s Suit) Symbol() byte {
	if int(s) >= len(suitNames) {
		return '?'
	}
	return "hdcs"[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Suit) MarshalText() ([]byte, error) {
	if int(s) >= len(suitNames) {
		return nil, fmt.Errorf("%w: suit %d", ErrInvalidCard, s)
	}
	return []byte(suitNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Suit) UnmarshalText(text []byte) error {
	for i, name := range suitNames {
		if strings.EqualFold(name, string(text)) {
			*s = Suit(i)
			return nil
		}
	}
	return fmt.Errorf("%w: suit %q", ErrInvalidCard, text)
}

// Rank is a card rank, ordered Two < Three < ... < Ace.
type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// NumRanks is the number of distinct ranks.
const NumRanks = 13

var rankNames = [...]string{
	"Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Jack", "Queen", "King", "Ace",
}

const rankSymbols = "23456789TJQKA"

func (r Rank) String() string {
	if int(r) >= len(rankNames) {
		return "Unknown"
	}
	return rankNames[r]
}

// Symbol returns the single-character rank used in card notation.
func (r Rank) Symbol() byte {
	if int(r) >= len(rankSymbols) {
		return '?'
	}
	return rankSymbols[r]
}

// MarshalText implements encoding.TextMarshaler.
func (r Rank) MarshalText() ([]byte, error) {
	if int(r) >= len(rankNames) {
		return nil, fmt.Errorf("%w: rank %d", ErrInvalidCard, r)
	}
	return []byte(rankNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rank) UnmarshalText(text []byte) error {
	for i, name := range rankNames {
		if strings.EqualFold(name, string(text)) {
			*r = Rank(i)
			return nil
		}
	}
	return fmt.Errorf("%w: rank %q", ErrInvalidCard, text)
}

// Card is a single playing card. It is a plain value and safe to copy.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// NewCard creates a card from rank and suit
func NewCard(rank Rank, suit Suit) Card {
	return Card{Suit: suit, Rank: rank}
}

// Valid reports whether the card has an in-range suit and rank.
func (c Card) Valid() bool {
	return int(c.Suit) < len(suitNames) && int(c.Rank) < len(rankNames)
}

// index returns a unique position 0-51 for the card.
func (c Card) index() int {
	return int(c.Suit)*NumRanks + int(c.Rank)
}

// String returns the short notation, e.g. "As" or "Td".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return string([]byte{c.Rank.Symbol(), c.Suit.Symbol()})
}

// ParseCard parses a string like "As" into a Card
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}

	var rank Rank
	switch s[0] {
	case '2':
		rank = Two
	case '3':
		rank = Three
	case '4':
		rank = Four
	case '5':
		rank = Five
	case '6':
		rank = Six
	case '7':
		rank = Seven
	case '8':
		rank = Eight
	case '9':
		rank = Nine
	case 'T', 't':
		rank = Ten
	case 'J', 'j':
		rank = Jack
	case 'Q', 'q':
		rank = Queen
	case 'K', 'k':
		rank = King
	case 'A', 'a':
		rank = Ace
	default:
		return Card{}, fmt.Errorf("%w: rank %q", ErrInvalidCard, s[0])
	}

	var suit Suit
	switch s[1] {
	case 'h', 'H':
		suit = Heart
	case 'd', 'D':
		suit = Diamond
	case 'c', 'C':
		suit = Club
	case 's', 'S':
		suit = Spade
	default:
		return Card{}, fmt.Errorf("%w: suit %q", ErrInvalidCard, s[1])
	}

	return NewCard(rank, suit), nil
}

// ParseCards parses whitespace or comma separated cards ("As Kd,Qh").
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards that panics on error. Intended for tests and fixtures.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards joins cards in short notation separated by spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
