package cli

import (
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/internal/store"
)

// addEntryCommands adds journal entry commands.
func addEntryCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:     "entry",
		Aliases: []string{"entries"},
		Short:   "Journal entry management",
		Long:    "Record, list and remove trading journal entries.",
	}

	cmd.AddCommand(newEntryAddCmd(app))
	cmd.AddCommand(newEntryListCmd(app))
	cmd.AddCommand(newEntryShowCmd(app))
	cmd.AddCommand(newEntryRemoveCmd(app))

	rootCmd.AddCommand(cmd)
}

func newEntryAddCmd(app *App) *cobra.Command {
	var (
		pair, date, session, typ, tm, notes string
		images                              map[string]string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a journal entry",
		Example: `  journal entry add --pair EURUSD --session newyork --date 2024-03-15
  journal entry add --pair XAUUSD --type breaker --time 09:45 --image m15=charts/xau-m15.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}

			entry := models.JournalEntry{
				Pair:    pair,
				Session: models.ParseSession(session),
				Type:    typ,
				Time:    tm,
				Notes:   notes,
				Images:  images,
			}
			if date != "" {
				d, err := ParseDate(date)
				if err != nil {
					return err
				}
				entry.Date = d
			}

			if err := svc.AddEntry(ctx, &entry); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(entry)
			}
			output.Success("✓ Entry %s added (%s, %s)", entry.ID, entry.Pair, FormatDate(entry.Date, app.Config.UI.DateFormat))
			return nil
		},
	}

	cmd.Flags().StringVar(&pair, "pair", "", "instrument pair (e.g. EURUSD)")
	cmd.Flags().StringVar(&date, "date", "", "trade date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&session, "session", "", "session: asia, london, newyork")
	cmd.Flags().StringVar(&typ, "type", "", "setup type")
	cmd.Flags().StringVar(&tm, "time", "", "entry time")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringToStringVar(&images, "image", nil, "chart image as timeframe=path (repeatable)")
	cmd.MarkFlagRequired("pair")

	return cmd
}

func newEntryListCmd(app *App) *cobra.Command {
	var filterFlags entryFilterFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}
			filter, err := filterFlags.build(app)
			if err != nil {
				return err
			}

			entries, err := svc.ListEntries(ctx, filter)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				if entries == nil {
					entries = []models.JournalEntry{}
				}
				return output.JSON(entries)
			}

			if len(entries) == 0 {
				output.Info("No journal entries.")
				output.Dim("Tip: add one with 'journal entry add --pair EURUSD'")
				return nil
			}

			table := NewTable(output, "ID", "Date", "Pair", "Session", "Type", "Notes")
			for _, e := range entries {
				table.AddRow(
					e.ID,
					FormatDate(e.Date, app.Config.UI.DateFormat),
					e.Pair,
					string(e.Session),
					e.Type,
					TruncateString(e.Notes, 30),
				)
			}
			table.Render()
			return nil
		},
	}

	filterFlags.register(cmd)
	return cmd
}

func newEntryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <entry-id>",
		Short: "Show a journal entry with its evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}

			entry, err := svc.GetEntry(ctx, args[0])
			if err != nil {
				return err
			}
			view := svc.Aggregator().View(ctx, *entry)

			if output.IsJSON() {
				return output.JSON(view)
			}

			output.Bold("%s  %s", entry.Pair, FormatDate(entry.Date, app.Config.UI.DateFormat))
			output.Printf("  ID:        %s\n", entry.ID)
			if entry.Session != "" {
				output.Printf("  Session:   %s\n", entry.Session)
			}
			if entry.Type != "" {
				output.Printf("  Type:      %s\n", entry.Type)
			}
			if entry.Time != "" {
				output.Printf("  Time:      %s\n", entry.Time)
			}
			if entry.Notes != "" {
				output.Printf("  Notes:     %s\n", entry.Notes)
			}
			if len(entry.Images) > 0 {
				keys := make([]string, 0, len(entry.Images))
				for k := range entry.Images {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					output.Printf("  Image %-4s %s\n", k+":", entry.Images[k])
				}
			}
			output.Println()
			output.Printf("  Decision:  %s\n", output.DecisionText(view.Decision))
			output.Printf("  Emotions:  %s\n", output.StabilityText(view.EmotionalScore))
			output.Printf("  History:   %d submission(s)\n", len(view.History))
			return nil
		},
	}
}

func newEntryRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <entry-id>...",
		Aliases: []string{"delete"},
		Short:   "Remove journal entries and their checklist state",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(cmd)
			defer cancel()

			svc, err := app.Service()
			if err != nil {
				return err
			}

			for _, id := range args {
				if err := svc.DeleteEntry(ctx, id); err != nil {
					return err
				}
				if !output.IsJSON() {
					output.Success("✓ Entry %s removed", id)
				}
			}
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"removed": args})
			}
			return nil
		},
	}
}

// entryFilterFlags holds the list filter flags shared by entry and archive
// listings.
type entryFilterFlags struct {
	pair, session, from, to, sort string
	limit                         int
}

func (f *entryFilterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.pair, "pair", "", "filter by pair")
	cmd.Flags().StringVar(&f.session, "session", "", "filter by session")
	cmd.Flags().StringVar(&f.from, "from", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "end date YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort order: date-desc, date-asc, pair-asc, pair-desc")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum number of entries")
}

func (f *entryFilterFlags) build(app *App) (store.EntryFilter, error) {
	filter := store.EntryFilter{
		Pair:  f.pair,
		Limit: f.limit,
		Sort:  app.Config.SortOrder(),
	}
	if f.session != "" {
		filter.Session = models.ParseSession(f.session)
	}
	if f.sort != "" {
		s, err := store.ParseSortOrder(strings.ToLower(f.sort))
		if err != nil {
			return filter, err
		}
		filter.Sort = s
	}
	if f.from != "" {
		d, err := ParseDate(f.from)
		if err != nil {
			return filter, err
		}
		filter.StartDate = d
	}
	if f.to != "" {
		d, err := ParseDate(f.to)
		if err != nil {
			return filter, err
		}
		filter.EndDate = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if f.limit < 0 {
		return filter, errors.NewValidationError("limit", f.limit, "must be non-negative")
	}
	return filter, nil
}
