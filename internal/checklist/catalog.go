// Package checklist provides the trade-plan and emotional checklist catalogs
// and the selection state recorded against them.
package checklist

import (
	"fmt"
	"sort"

	"trade-journal/internal/errors"
)

// ItemID is the stable identifier of a checklist item. Persisted selections
// are keyed by ItemID; labels are display text only and may change freely.
type ItemID string

// Kind identifies which checklist an item belongs to.
type Kind string

const (
	KindTradePlan Kind = "checklist"
	KindEmotional Kind = "emotional"
)

// Phase is one of the three emotional checklist phases.
type Phase string

const (
	PhaseBefore Phase = "before"
	PhaseDuring Phase = "during"
	PhaseAfter  Phase = "after"
)

// Phases returns the emotional phases in display order.
func Phases() []Phase {
	return []Phase{PhaseBefore, PhaseDuring, PhaseAfter}
}

// ParsePhase converts a string into a Phase.
func ParsePhase(s string) (Phase, error) {
	switch Phase(s) {
	case PhaseBefore, PhaseDuring, PhaseAfter:
		return Phase(s), nil
	}
	return "", errors.NewValidationError("phase", s, "must be before, during or after")
}

// CheckItem is a single checkbox of a checklist.
type CheckItem struct {
	ID    ItemID `mapstructure:"id" json:"id"`
	Label string `mapstructure:"label" json:"label"`
}

// Step is an ordered step of the trade-plan checklist.
type Step struct {
	Ordinal   int         `mapstructure:"ordinal" json:"ordinal"`
	Label     string      `mapstructure:"label" json:"label"`
	Mandatory bool        `mapstructure:"mandatory" json:"mandatory"`
	Items     []CheckItem `mapstructure:"items" json:"items"`
}

// PhaseItems holds the good and bad items of one emotional phase.
type PhaseItems struct {
	Good []CheckItem `mapstructure:"good" json:"good"`
	Bad  []CheckItem `mapstructure:"bad" json:"bad"`
}

// Definition is the raw shape of a catalog as supplied by configuration.
type Definition struct {
	Version string               `mapstructure:"version" json:"version"`
	Steps   []Step               `mapstructure:"steps" json:"steps"`
	Phases  map[Phase]PhaseItems `mapstructure:"phases" json:"phases"`
}

// itemRef locates an item inside the catalog.
type itemRef struct {
	item    CheckItem
	kind    Kind
	ordinal int
	phase   Phase
	good    bool
}

// Catalog is the immutable, validated checklist definition shared by every
// evaluator. Construct it with New or Default.
type Catalog struct {
	version string
	steps   []Step
	phases  map[Phase]PhaseItems
	index   map[ItemID]itemRef
}

// New validates def and builds a Catalog from it. The definition is copied, so
// later changes to def do not affect the catalog.
func New(def Definition) (*Catalog, error) {
	c := &Catalog{
		version: def.Version,
		steps:   make([]Step, 0, len(def.Steps)),
		phases:  make(map[Phase]PhaseItems, len(def.Phases)),
		index:   make(map[ItemID]itemRef),
	}

	steps := append([]Step(nil), def.Steps...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Ordinal < steps[j].Ordinal })

	for i, s := range steps {
		if s.Ordinal != i+1 {
			return nil, errors.NewCatalogError("steps", fmt.Sprintf("ordinals must run 1..N, found %d at position %d", s.Ordinal, i+1))
		}
		if len(s.Items) == 0 {
			return nil, errors.NewCatalogError("steps", fmt.Sprintf("step %d has no items", s.Ordinal))
		}
		s.Items = append([]CheckItem(nil), s.Items...)
		for _, it := range s.Items {
			if err := c.register(it, itemRef{item: it, kind: KindTradePlan, ordinal: s.Ordinal}); err != nil {
				return nil, err
			}
		}
		c.steps = append(c.steps, s)
	}

	for phase, items := range def.Phases {
		if _, err := ParsePhase(string(phase)); err != nil {
			return nil, errors.NewCatalogError("phases", fmt.Sprintf("unknown phase %q", phase))
		}
		pi := PhaseItems{
			Good: append([]CheckItem(nil), items.Good...),
			Bad:  append([]CheckItem(nil), items.Bad...),
		}
		for _, it := range pi.Good {
			if err := c.register(it, itemRef{item: it, kind: KindEmotional, phase: phase, good: true}); err != nil {
				return nil, err
			}
		}
		for _, it := range pi.Bad {
			if err := c.register(it, itemRef{item: it, kind: KindEmotional, phase: phase}); err != nil {
				return nil, err
			}
		}
		c.phases[phase] = pi
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew is like New but panics on an invalid definition.
func MustNew(def Definition) *Catalog {
	c, err := New(def)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) register(it CheckItem, ref itemRef) error {
	if it.ID == "" {
		return errors.NewCatalogError("items", fmt.Sprintf("item %q has no id", it.Label))
	}
	if _, dup := c.index[it.ID]; dup {
		return errors.NewCatalogError("items", fmt.Sprintf("duplicate item id %q", it.ID))
	}
	c.index[it.ID] = ref
	return nil
}

// Validate checks the structural invariants the evaluators rely on: the
// direction items live in step 1 and the risk items exist.
func (c *Catalog) Validate() error {
	if len(c.steps) == 0 {
		return errors.NewCatalogError("steps", "catalog has no steps")
	}
	for _, id := range []ItemID{ItemBuyZone, ItemSellZone} {
		ref, ok := c.index[id]
		if !ok || ref.kind != KindTradePlan || ref.ordinal != 1 {
			return errors.NewCatalogError("steps", fmt.Sprintf("direction item %q must belong to step 1", id))
		}
	}
	for _, id := range []ItemID{ItemDailyOpen, ItemWeeklyOpen, ItemMonthlyOpen} {
		if ref, ok := c.index[id]; !ok || ref.kind != KindTradePlan {
			return errors.NewCatalogError("steps", fmt.Sprintf("risk item %q is missing", id))
		}
	}
	return nil
}

// Version returns the catalog version string.
func (c *Catalog) Version() string { return c.version }

// Steps returns a copy of the trade-plan steps in ordinal order.
func (c *Catalog) Steps() []Step {
	out := make([]Step, len(c.steps))
	for i, s := range c.steps {
		out[i] = s.clone()
	}
	return out
}

// Step returns the step with the given ordinal.
func (c *Catalog) Step(ordinal int) (Step, bool) {
	if ordinal < 1 || ordinal > len(c.steps) {
		return Step{}, false
	}
	return c.steps[ordinal-1].clone(), true
}

// Phase returns a copy of the good and bad items of an emotional phase.
func (c *Catalog) Phase(p Phase) PhaseItems {
	return c.phases[p].clone()
}

// Item returns the item with the given id.
func (c *Catalog) Item(id ItemID) (CheckItem, bool) {
	ref, ok := c.index[id]
	return ref.item, ok
}

// Label returns the display label of id, or the id itself when unknown.
func (c *Catalog) Label(id ItemID) string {
	if ref, ok := c.index[id]; ok {
		return ref.item.Label
	}
	return string(id)
}

// Kind reports which checklist id belongs to.
func (c *Catalog) Kind(id ItemID) (Kind, bool) {
	ref, ok := c.index[id]
	return ref.kind, ok
}

// PhaseOf reports the emotional phase of id and whether it is a good item.
func (c *Catalog) PhaseOf(id ItemID) (phase Phase, good bool, ok bool) {
	ref, found := c.index[id]
	if !found || ref.kind != KindEmotional {
		return "", false, false
	}
	return ref.phase, ref.good, true
}

// Definition returns a copy of the definition the catalog was built from.
func (c *Catalog) Definition() Definition {
	def := Definition{Version: c.version, Steps: c.Steps(), Phases: make(map[Phase]PhaseItems, len(c.phases))}
	for p, items := range c.phases {
		def.Phases[p] = items.clone()
	}
	return def
}

func (s Step) clone() Step {
	s.Items = append([]CheckItem(nil), s.Items...)
	return s
}

func (p PhaseItems) clone() PhaseItems {
	return PhaseItems{
		Good: append([]CheckItem(nil), p.Good...),
		Bad:  append([]CheckItem(nil), p.Bad...),
	}
}
