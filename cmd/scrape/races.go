package main

import (
	"github.com/spf13/cobra"

	"github.com/padraicbc/keibadb/scraper"
)

var racesFlags struct {
	startYear int
	endYear   int
	grades    []string
	tracks    []string
	perPage   int
	limit     int
}

var racesCmd = &cobra.Command{
	Use:   "races",
	Short: "Search races and scrape every listed race page",
	Long: `Pages through the race search and stores each listed race with its
results and payouts.

Examples:
  scrape races --start-year 2024 --end-year 2024 --grade 1
  scrape races --start-year 2010 --grade 1 --grade 2 --track 05 --skip-existing`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		t, err := scraper.NewRaceRunner(e.deps, e.opts).RunList(cmd.Context(), scraper.ListQuery{
			StartYear: racesFlags.startYear,
			EndYear:   racesFlags.endYear,
			Grades:    racesFlags.grades,
			Tracks:    racesFlags.tracks,
			PerPage:   racesFlags.perPage,
			Limit:     racesFlags.limit,
		})
		if err != nil {
			return err
		}
		return e.report(t)
	},
}

var raceCmd = &cobra.Command{
	Use:   "race RACE_ID...",
	Short: "Scrape the given race pages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, ids []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()
		return e.report(scraper.NewRaceRunner(e.deps, e.opts).RunIDs(cmd.Context(), ids))
	},
}

func init() {
	f := racesCmd.Flags()
	f.IntVar(&racesFlags.startYear, "start-year", 0, "first year searched")
	f.IntVar(&racesFlags.endYear, "end-year", 0, "last year searched")
	f.StringSliceVar(&racesFlags.grades, "grade", nil, "grade code, 1=G1 2=G2 3=G3 (repeatable)")
	f.StringSliceVar(&racesFlags.tracks, "track", nil, "JRA venue code 01-10 (repeatable, default all)")
	f.IntVar(&racesFlags.perPage, "per-page", scraper.MaxPerPage, "rows per list page")
	f.IntVar(&racesFlags.limit, "limit", 0, "stop after this many races, 0 for no limit")

	rootCmd.AddCommand(racesCmd, raceCmd)
}
