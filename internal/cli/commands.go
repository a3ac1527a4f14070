package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search beers through the cache tiers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			beers, err := appFrom(cmd).Search.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd, beers)
		},
	}
}

func newRandomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Show a random beer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			beer, err := appFrom(cmd).Search.RandomBeer(cmd.Context())
			if err != nil {
				return err
			}
			if beer == nil {
				return fmt.Errorf("no beer available")
			}
			return printJSON(cmd, beer)
		},
	}
}

func newBeerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "beer <id>",
		Short: "Show one beer by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			beer, err := appFrom(cmd).Search.BeerByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if beer == nil {
				return fmt.Errorf("beer %q not found", args[0])
			}
			return printJSON(cmd, beer)
		},
	}
}

func newPopularCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List the most requested search terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, appFrom(cmd).Search.PopularSearches(cmd.Context(), limit))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum terms")
	return cmd
}

func newBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "budget",
		Short: "Show beer provider quota usage for this month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, appFrom(cmd).Search.BudgetStatus(cmd.Context()))
		},
	}
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Count local cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, appFrom(cmd).Search.CacheStats(cmd.Context()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every local cache entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appFrom(cmd).Search.ClearCache(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "local cache cleared")
			return nil
		},
	})

	var limit int
	prewarm := &cobra.Command{
		Use:   "prewarm",
		Short: "Load popular searches into the local cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			warmed, err := appFrom(cmd).Search.Prewarm(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "warmed %d terms\n", warmed)
			return nil
		},
	}
	prewarm.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum terms")
	cmd.AddCommand(prewarm)

	return cmd
}

func newPlacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Find pubs",
	}

	var radius int
	nearby := &cobra.Command{
		Use:   "nearby <lat> <lng>",
		Short: "List pubs near a coordinate, closest first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q", args[0])
			}
			lng, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q", args[1])
			}

			pubs, err := appFrom(cmd).Places.NearbyPubs(cmd.Context(), lat, lng, radius)
			if err != nil {
				return err
			}
			return printJSON(cmd, pubs)
		},
	}
	nearby.Flags().IntVarP(&radius, "radius", "r", 0, "Search radius in meters (default from config)")
	cmd.AddCommand(nearby)

	return cmd
}
