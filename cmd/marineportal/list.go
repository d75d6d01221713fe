package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"marineportal/internal/api"
	"marineportal/internal/config"
	"marineportal/internal/models"
)

func newListCmd(cfg *config.Config, out *outputOptions) *cobra.Command {
	kinds := make([]string, 0, 3)
	for _, kind := range models.Kinds() {
		kinds = append(kinds, string(kind))
	}

	return &cobra.Command{
		Use:       "list <" + strings.Join(kinds, "|") + ">",
		Short:     "List records of one kind, newest first",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseKind(args[0])
			if err != nil {
				return err
			}
			return withClient(cfg, func(client *api.Client) error {
				if out.structured() {
					raw, err := client.ListRaw(cmd.Context(), string(kind))
					if err != nil {
						return err
					}
					_, err = writeStructured(out, raw)
					return err
				}

				switch kind {
				case models.KindIngestion:
					recs, err := client.ListIngestion(cmd.Context())
					if err != nil {
						return err
					}
					return writeLines(recs, formatIngestionLine)
				case models.KindOtolith:
					recs, err := client.ListOtolith(cmd.Context())
					if err != nil {
						return err
					}
					return writeLines(recs, formatOtolithLine)
				default:
					recs, err := client.ListEdna(cmd.Context())
					if err != nil {
						return err
					}
					return writeLines(recs, formatEdnaLine)
				}
			})
		},
	}
}

func writeLines[T any](items []T, format func(T) string) error {
	for _, item := range items {
		if err := writePlain("%s\n", format(item)); err != nil {
			return err
		}
	}
	return nil
}

func formatIngestionLine(rec api.IngestionResponse) string {
	line := fmt.Sprintf("%s  %s", formatTime(rec.Timestamp), orDash(rec.Title))
	if rec.Filename != nil {
		line += "  [" + *rec.Filename + "]"
	}
	return line
}

func formatOtolithLine(rec api.OtolithResponse) string {
	length := "-"
	if rec.LengthMM != nil {
		length = fmt.Sprintf("%gmm", *rec.LengthMM)
	}
	line := fmt.Sprintf("%s  %s  %s", formatTime(rec.Timestamp), orDash(rec.Species), length)
	if rec.Filename != nil {
		line += "  [" + *rec.Filename + "]"
	}
	return line
}

func formatEdnaLine(rec api.EdnaResponse) string {
	species := "-"
	if len(rec.SpeciesDetected) > 0 {
		species = strings.Join(rec.SpeciesDetected, ", ")
	}
	return fmt.Sprintf("%s  %s  %s", formatTime(rec.Timestamp), orDash(rec.SampleID), species)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
