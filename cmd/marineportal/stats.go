package main

import (
	"sort"

	"github.com/spf13/cobra"

	"marineportal/internal/api"
	"marineportal/internal/config"
)

func newStatsCmd(cfg *config.Config, out *outputOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard aggregates from a running portal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				data, err := client.VisualizationData(cmd.Context())
				if err != nil {
					return err
				}
				if handled, err := writeStructured(out, data); handled {
					return err
				}
				return writeVisualizationData(data)
			})
		},
	}
}

type speciesCount struct {
	name  string
	count int
}

// rankSpecies orders by count descending, then name.
func rankSpecies(counts map[string]int) []speciesCount {
	out := make([]speciesCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, speciesCount{name: name, count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}

func writeVisualizationData(data api.VisualizationData) error {
	if err := writePlain("ingestion: %d\notolith:   %d\nedna:      %d\n",
		data.IngestionCount, data.OtolithCount, data.EdnaCount); err != nil {
		return err
	}

	if len(data.SpeciesCounts) > 0 {
		if err := writePlain("\nspecies:\n"); err != nil {
			return err
		}
		for _, sc := range rankSpecies(data.SpeciesCounts) {
			if err := writePlain("  %-24s %d\n", sc.name, sc.count); err != nil {
				return err
			}
		}
	}

	if len(data.Timeseries) > 0 {
		if err := writePlain("\ningestion by day:\n"); err != nil {
			return err
		}
		for _, point := range data.Timeseries {
			if err := writePlain("  %s %d\n", point.Date, point.Count); err != nil {
				return err
			}
		}
	}
	return nil
}
