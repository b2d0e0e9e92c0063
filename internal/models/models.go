// Package models provides domain models for the trading journal.
package models

import (
	"strings"
	"time"
)

// OrderSide represents the side of a trade.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// Session represents the trading session an entry was taken in.
type Session string

const (
	SessionAsia    Session = "ASIA"
	SessionLondon  Session = "LONDON"
	SessionNewYork Session = "NEWYORK"
)

// ParseSession normalises a user supplied session name. Unknown names are
// kept verbatim since the journal treats sessions as free text.
func ParseSession(s string) Session {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "")) {
	case "ASIA", "ASIAN", "TOKYO":
		return SessionAsia
	case "LONDON":
		return SessionLondon
	case "NEWYORK", "NY":
		return SessionNewYork
	}
	return Session(strings.TrimSpace(s))
}

// JournalEntry is a trade recorded in the journal. The scoring engine only
// reads ID and Pair; everything else is carried through for display.
type JournalEntry struct {
	ID        string            `json:"id"`
	Pair      string            `json:"pair"`
	Date      time.Time         `json:"date"`
	Session   Session           `json:"session,omitempty"`
	Type      string            `json:"type,omitempty"`
	Time      string            `json:"time,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	Images    map[string]string `json:"images,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// NormalizePair upper-cases an instrument pair and strips separators so that
// "eur/usd" and "EURUSD" refer to the same instrument.
func NormalizePair(pair string) string {
	r := strings.NewReplacer("/", "", "-", "", "_", "", " ", "")
	return strings.ToUpper(r.Replace(pair))
}
