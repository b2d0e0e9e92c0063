package store

import (
	"strings"

	"trade-journal/internal/checklist"
	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// Key kinds. Every key is "<kind>:<scope>".
const (
	KindChecklist        = string(checklist.KindTradePlan)
	KindEmotional        = string(checklist.KindEmotional)
	KindEmotionalJournal = "emotional-journal"
)

// KeyPolicy decides how emotional-journal keys are scoped.
//
// With KeyPolicyPair every entry on the same instrument shares one history,
// so deleting one entry cannot drop that history while another entry on the
// pair still exists. KeyPolicyEntry gives each entry its own history and is
// the default.
type KeyPolicy string

const (
	KeyPolicyEntry KeyPolicy = "entry"
	KeyPolicyPair  KeyPolicy = "pair"
)

// ParseKeyPolicy validates a key policy. An empty string means entry.
func ParseKeyPolicy(s string) (KeyPolicy, error) {
	switch KeyPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", KeyPolicyEntry:
		return KeyPolicyEntry, nil
	case KeyPolicyPair:
		return KeyPolicyPair, nil
	}
	return "", errors.NewValidationError("emotional_key_scope", s, "must be entry or pair")
}

// EntryScoped builds "<kind>:<entryID>".
func EntryScoped(kind, entryID string) string {
	return kind + ":" + entryID
}

// PairScoped builds "<kind>:<PAIR>" with the pair normalised.
func PairScoped(kind, pair string) string {
	return kind + ":" + models.NormalizePair(pair)
}

// Keys builds the store keys used for one journal.
type Keys struct {
	Policy KeyPolicy
}

// NewKeys returns a key builder for policy.
func NewKeys(policy KeyPolicy) Keys {
	if policy == "" {
		policy = KeyPolicyEntry
	}
	return Keys{Policy: policy}
}

// TradePlan returns the trade-plan checklist key. Always entry-scoped.
func (k Keys) TradePlan(entryID string) string {
	return EntryScoped(KindChecklist, entryID)
}

// Emotional returns the live emotional checklist key. Always entry-scoped.
func (k Keys) Emotional(entryID string) string {
	return EntryScoped(KindEmotional, entryID)
}

// EmotionalJournal returns the key of the submitted emotional history for
// entry under the configured policy.
func (k Keys) EmotionalJournal(entry models.JournalEntry) string {
	if k.Policy == KeyPolicyPair {
		return PairScoped(KindEmotionalJournal, entry.Pair)
	}
	return EntryScoped(KindEmotionalJournal, entry.ID)
}

// SharesEmotionalJournal reports whether a and b resolve to the same
// emotional-journal key.
func (k Keys) SharesEmotionalJournal(a, b models.JournalEntry) bool {
	return k.EmotionalJournal(a) == k.EmotionalJournal(b)
}

// Prefixes returns the prefixes of every key kind the engine writes.
func (k Keys) Prefixes() []string {
	return []string{KindChecklist + ":", KindEmotional + ":", KindEmotionalJournal + ":"}
}
