package checklist

// DefaultVersion identifies the built-in catalog. Bump it whenever an item is
// added, removed or re-identified.
const DefaultVersion = "ny-session/1"

// Trade-plan items the evaluators refer to directly.
const (
	ItemBuyZone     ItemID = "step1.discount"
	ItemSellZone    ItemID = "step1.premium"
	ItemDailyOpen   ItemID = "step8.daily_open"
	ItemWeeklyOpen  ItemID = "step9.weekly_open"
	ItemMonthlyOpen ItemID = "step10.monthly_open"
)

// Default returns the canonical NY-session catalog.
//
// Step 7 is mandatory: the step label says so and archived entries were always
// judged with it gating the decision.
func Default() *Catalog {
	return MustNew(DefaultDefinition())
}

// DefaultDefinition returns the raw definition behind Default.
func DefaultDefinition() Definition {
	return Definition{
		Version: DefaultVersion,
		Steps: []Step{
			{
				Ordinal:   1,
				Label:     "Step 1: Previous Day NewYork inside Fib Discount Zone (Mandatory)",
				Mandatory: true,
				Items: []CheckItem{
					{ID: ItemBuyZone, Label: "Previous Day NewYork low inside Fib Discount Zone (50% – 100%) → Buy setup"},
					{ID: ItemSellZone, Label: "Previous Day NewYork high inside Fib Premium Zone (50% – 100%) → Sell setup"},
				},
			},
			{
				Ordinal:   2,
				Label:     "Step 2: Asian Accumulation (Mandatory)",
				Mandatory: true,
				Items: []CheckItem{
					{ID: "step2.asian_liquidity", Label: "Asian Session created liquidity"},
				},
			},
			{
				Ordinal:   3,
				Label:     "Step 3: Liquidity Reference (PDL / PDH / PWL / PWH) (Mandatory - pick 1 or 2)",
				Mandatory: true,
				Items: []CheckItem{
					{ID: "step3.pdl", Label: "Previous Day Low (PDL)"},
					{ID: "step3.pdh", Label: "Previous Day High (PDH)"},
					{ID: "step3.pwl", Label: "Previous Week Low (PWL)"},
					{ID: "step3.pwh", Label: "Previous Week High (PWH)"},
				},
			},
			{
				Ordinal:   4,
				Label:     "Step 4: Manipulation (Mandatory)",
				Mandatory: true,
				Items: []CheckItem{
					{ID: "step4.london_grab", Label: "Liquidity grab by LONDON"},
					{ID: "step4.london_ny_grab", Label: "Liquidity grab by LONDON & NEWYORK (possible swing point)"},
				},
			},
			{
				Ordinal:   5,
				Label:     "Step 5: Order Block / FVG (Optional - 1 or both)",
				Mandatory: false,
				Items: []CheckItem{
					{ID: "step5.ob_15m", Label: "OB Formed in 15min"},
					{ID: "step5.fvg_5m", Label: "FVG Formed (5min)"},
				},
			},
			{
				Ordinal:   6,
				Label:     "Step 6: Breaker Block (Mandatory)",
				Mandatory: true,
				Items: []CheckItem{
					{ID: "step6.breaker", Label: "Breaker Block (Green for Buys / Red for Sells in 15min/5min)"},
				},
			},
			{
				Ordinal:   7,
				Label:     "Step 7: NewYork Continuation / Distribution (Mandatory)",
				Mandatory: true,
				Items: []CheckItem{
					{ID: "step7.ny_continuation", Label: "NY Continuation / Distribution"},
				},
			},
			{
				Ordinal: 8,
				Label:   "Step 8: Daily Open (Optional)",
				Items:   []CheckItem{{ID: ItemDailyOpen, Label: "Daily Open"}},
			},
			{
				Ordinal: 9,
				Label:   "Step 9: Weekly Open (Optional)",
				Items:   []CheckItem{{ID: ItemWeeklyOpen, Label: "Weekly Open"}},
			},
			{
				Ordinal: 10,
				Label:   "Step 10: Monthly Open (Optional)",
				Items:   []CheckItem{{ID: ItemMonthlyOpen, Label: "Monthly Open"}},
			},
		},
		Phases: map[Phase]PhaseItems{
			PhaseBefore: {
				Good: []CheckItem{
					{ID: "before.good.followed_plan", Label: "I followed my trading plan"},
					{ID: "before.good.defined_levels", Label: "I defined entry, stop loss, and take profit before entry"},
					{ID: "before.good.patient", Label: "I’m calm and patient waiting for setup"},
					{ID: "before.good.accepted_loss", Label: "I accepted possible loss before placing trade"},
				},
				Bad: []CheckItem{
					{ID: "before.bad.fomo", Label: "I’m entering because of FOMO"},
					{ID: "before.bad.lot_size", Label: "I’m increasing my lot size without reason"},
					{ID: "before.bad.revenge", Label: "I’m revenge trading after a loss"},
					{ID: "before.bad.no_setup", Label: "I don’t have a clear setup"},
				},
			},
			PhaseDuring: {
				Good: []CheckItem{
					{ID: "during.good.sticking_levels", Label: "I’m sticking to my stop loss and take profit"},
					{ID: "during.good.not_staring", Label: "I’m not staring at charts anxiously"},
					{ID: "during.good.calm", Label: "I’m calm whether trade is in profit or loss"},
					{ID: "during.good.no_emotion", Label: "I’m following my plan without emotions"},
				},
				Bad: []CheckItem{
					{ID: "during.bad.moving_stop", Label: "I’m moving stop loss further away"},
					{ID: "during.bad.early_close", Label: "I’m closing trade early due to fear/greed"},
					{ID: "during.bad.adding", Label: "I’m adding positions impulsively"},
					{ID: "during.bad.panic", Label: "I feel panic or over-excitement"},
				},
			},
			PhaseAfter: {
				Good: []CheckItem{
					{ID: "after.good.accepted", Label: "I accepted the outcome without emotions"},
					{ID: "after.good.reviewed", Label: "I reviewed if I followed my rules"},
					{ID: "after.good.learning", Label: "I’m learning from the result (win or loss)"},
					{ID: "after.good.not_rushing", Label: "I’m not rushing to open another trade immediately"},
				},
				Bad: []CheckItem{
					{ID: "after.bad.blaming", Label: "I’m blaming the market or broker"},
					{ID: "after.bad.revenge", Label: "I’m revenge trading right after"},
					{ID: "after.bad.over_reacting", Label: "I’m over-celebrating a win or over-mourning a loss"},
					{ID: "after.bad.no_review", Label: "I ignore reviewing my execution"},
				},
			},
		},
	}
}
