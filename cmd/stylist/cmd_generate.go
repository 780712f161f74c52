package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/scoring"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/session"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

var (
	sortBy      string
	styleFilter string
	dedupe      bool

	generateCmd = &cobra.Command{
		Use:   "generate [garment-id...]",
		Short: "Print the ranked combinations for garments of the catalog",
		Long: `generate selects the given garments (every catalog garment when none
is given) and prints the ranked combinations once. Selections follow the
capacity of the first rule, so later garments of a full category replace
earlier ones.`,
		RunE: runGenerate,
	}
)

func init() {
	generateCmd.Flags().StringVar(&sortBy, "sort", string(scoring.SortByCompatibility), "compatibility, style, recent or category_count")
	generateCmd.Flags().StringVar(&styleFilter, "style", "", "only show combinations with this style")
	generateCmd.Flags().BoolVar(&dedupe, "dedupe", false, "drop combinations similar to a better ranked one")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	order, err := scoring.ParseSortOrder(sortBy)
	if err != nil {
		return err
	}
	var style types.StyleLabel
	if styleFilter != "" {
		if style, err = types.ParseStyleLabel(styleFilter); err != nil {
			return err
		}
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	ids := args
	if len(ids) == 0 {
		for _, g := range cat.List() {
			ids = append(ids, g.ID)
		}
	}

	oneShot := cfg
	oneShot.Journal.Enabled = false
	sess, _, err := openSession(oneShot, cmd.ErrOrStderr(), nil, func(o *session.SessionOptional, _ types.Utils) {
		o.Debounce = -1
	})
	if err != nil {
		return err
	}
	defer sess.Stop()

	missing, err := sess.SyncFromIDs(cmd.Context(), ids, cat)
	if err != nil {
		return err
	}
	for _, id := range missing {
		fmt.Fprintf(cmd.ErrOrStderr(), "unknown garment %q skipped\n", id)
	}

	res := <-sess.Generate()
	if res.Err != nil {
		return res.Err
	}
	if res.Skipped {
		fmt.Fprintln(cmd.OutOrStdout(), "not enough garments selected to build a combination")
		return nil
	}

	combos := scoring.SortCombinations(res.Combinations, order)
	if style != 0 {
		combos = scoring.FilterByStyle(combos, style)
	}
	if dedupe {
		combos = withoutSimilar(combos)
	}
	printCombinations(cmd.OutOrStdout(), combos)
	return nil
}

// withoutSimilar keeps the first of every group of similar combinations.
func withoutSimilar(combos []types.CandidateCombination) []types.CandidateCombination {
	var out []types.CandidateCombination
	for i := range combos {
		similar := false
		for j := range out {
			if scoring.Similar(&combos[i], &out[j]) {
				similar = true
				break
			}
		}
		if !similar {
			out = append(out, combos[i])
		}
	}
	return out
}

// formatDistribution renders category counts as "bottom:1 top:2", sorted by
// category name.
func formatDistribution(dist map[string]int) string {
	parts := make([]string, 0, len(dist))
	for _, name := range slices.Sorted(maps.Keys(dist)) {
		parts = append(parts, fmt.Sprintf("%s:%d", name, dist[name]))
	}
	return strings.Join(parts, " ")
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))

func printCombinations(w io.Writer, combos []types.CandidateCombination) {
	if len(combos) == 0 {
		fmt.Fprintln(w, "no combination matches")
		return
	}
	rows := make([][]string, 0, len(combos))
	for i, c := range combos {
		names := make([]string, len(c.Items))
		for j, item := range c.Items {
			names[j] = item.Garment.Name
			if names[j] == "" {
				names[j] = item.GarmentID
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.RuleID,
			strconv.FormatFloat(c.Score, 'f', 3, 64),
			c.Style.String(),
			c.Season,
			formatDistribution(scoring.CategoryDistribution(&c)),
			strings.Join(names, ", "),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("#", "RULE", "SCORE", "STYLE", "SEASON", "CATEGORIES", "ITEMS").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}
