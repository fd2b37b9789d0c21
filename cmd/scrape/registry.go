package main

import (
	"github.com/spf13/cobra"

	"github.com/padraicbc/keibadb/scraper"
)

var registryFlags struct {
	limit int
	year  int
}

var registryCmd = &cobra.Command{
	Use:   "registry [KIND...]",
	Short: "Scrape the jockey, trainer, owner and breeder rankings",
	Long: `Stores the ranking lists of the given kinds (jockey, trainer, owner,
breeder), all four when none is named.

Examples:
  scrape registry
  scrape registry jockeys --limit 200`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := scraper.Kinds
		if len(args) > 0 {
			kinds = kinds[:0:0]
			for _, a := range args {
				k, err := scraper.ParseKind(a)
				if err != nil {
					return err
				}
				kinds = append(kinds, k)
			}
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		r := scraper.NewRegistryRunner(e.deps, e.opts)
		if registryFlags.year > 0 {
			r.Year = registryFlags.year
		}
		for _, k := range kinds {
			t, err := r.Run(cmd.Context(), k, registryFlags.limit)
			if err != nil {
				return err
			}
			if err := e.report(t); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	registryCmd.Flags().IntVar(&registryFlags.limit, "limit", 0, "records per kind, 0 for no limit")
	registryCmd.Flags().IntVar(&registryFlags.year, "year", 0, "year the yearly snapshot is filed under (default current year)")

	rootCmd.AddCommand(registryCmd)
}
