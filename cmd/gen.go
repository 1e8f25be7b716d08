package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ratmirov/tatami/internal/rostergen"
)

func newGenCmd() *cobra.Command {
	var (
		athletes  int
		sections  int
		layout    string
		encoding  string
		delimiter string
		noise     bool
		seed      uint64
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a synthetic results file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := rostergen.Config{
				Athletes: athletes,
				Sections: sections,
				Layout:   rostergen.Layout(layout),
				Encoding: rostergen.Encoding(encoding),
				Noise:    noise,
				Seed:     seed,
			}
			if delimiter != "" {
				cfg.Delimiter = rune(delimiter[0])
			}

			blob, rows, err := rostergen.Generate(cfg)
			if err != nil {
				return err
			}

			if outPath == "" || outPath == "-" {
				_, err = cmd.OutOrStdout().Write(blob)
				return err
			}
			if err := os.WriteFile(outPath, blob, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			cmd.Printf("wrote %d result rows to %s\n", rows, outPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&athletes, "athletes", 20, "number of result rows")
	cmd.Flags().IntVar(&sections, "sections", 4, "number of weight sections (sections layout)")
	cmd.Flags().StringVar(&layout, "layout", string(rostergen.LayoutSections), "file layout: sections or columnar")
	cmd.Flags().StringVar(&encoding, "encoding", string(rostergen.EncodingUTF8), "output encoding: utf8 or cp1251")
	cmd.Flags().StringVar(&delimiter, "delimiter", ";", "cell delimiter")
	cmd.Flags().BoolVar(&noise, "noise", false, "mix junk lines into the output")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed, 0 for a derived one")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output path, - for stdout")
	return cmd
}
