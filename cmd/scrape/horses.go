package main

import (
	"github.com/spf13/cobra"

	"github.com/padraicbc/keibadb/scraper"
)

var horsesFlags struct {
	grades       []string
	offset       int
	limit        int
	minBirthYear int
	perPage      int
}

var horsesCmd = &cobra.Command{
	Use:   "horses",
	Short: "Search horses and scrape every listed profile with its pedigree",
	Long: `Pages through the horse search, newest foals first, and stores each
profile together with its sire, dam and broodmare sire edges.

Examples:
  scrape horses --grade 4 --min-birth-year 2015
  scrape horses --offset 200 --limit 100`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		t, err := scraper.NewHorseRunner(e.deps, e.opts).RunList(cmd.Context(), scraper.HorseListQuery{
			Grades:       horsesFlags.grades,
			Offset:       horsesFlags.offset,
			Limit:        horsesFlags.limit,
			MinBirthYear: horsesFlags.minBirthYear,
			PerPage:      horsesFlags.perPage,
		})
		if err != nil {
			return err
		}
		return e.report(t)
	},
}

var horseCmd = &cobra.Command{
	Use:   "horse HORSE_ID...",
	Short: "Scrape the given horse profiles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, ids []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		return e.report(scraper.NewHorseRunner(e.deps, e.opts).RunIDs(cmd.Context(), ids))
	},
}

func init() {
	f := horsesCmd.Flags()
	f.StringSliceVar(&horsesFlags.grades, "grade", nil, "horse search grade code, 4=G1 winners (repeatable)")
	f.IntVar(&horsesFlags.offset, "offset", 0, "skip this many listed horses")
	f.IntVar(&horsesFlags.limit, "limit", 0, "stop after this many horses, 0 for no limit")
	f.IntVar(&horsesFlags.minBirthYear, "min-birth-year", 0, "stop at the first horse born before this year")
	f.IntVar(&horsesFlags.perPage, "per-page", scraper.MaxPerPage, "rows per list page")

	rootCmd.AddCommand(horsesCmd, horseCmd)
}
