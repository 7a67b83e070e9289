package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/rfidash/internal/julian"
	"github.com/erazemk/rfidash/internal/model"
	"github.com/erazemk/rfidash/internal/tagdata"
)

func julianCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "julian",
		Short: "Convert between calendar dates and DDDYY codes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "encode [YYYY-MM-DD]",
		Short: "Print the DDDYY code of a date (today if omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := time.Now()
			if len(args) == 1 {
				var err error
				if t, err = time.Parse(time.DateOnly, args[0]); err != nil {
					return fmt.Errorf("parsing date %q: %w", args[0], err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), julian.Encode(t))
			return nil
		},
	})

	var strict bool
	decode := &cobra.Command{
		Use:   "decode <DDDYY>",
		Short: "Print the calendar date of a code",
		Long: `decode prints the calendar date of a DDDYY code. A day number past the end
of the year rolls over into the next one (36625 is 2026-01-01) unless
--strict is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decodeFn := julian.Decode
			if strict {
				decodeFn = julian.DecodeStrict
			}
			t, err := decodeFn(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", t.Format(time.DateOnly), julian.Long(t))
			return nil
		},
	}
	decode.Flags().BoolVar(&strict, "strict", false, "reject day numbers past the end of the year")
	cmd.AddCommand(decode)

	return cmd
}

func composeCmd() *cobra.Command {
	var showHex bool

	cmd := &cobra.Command{
		Use:   "compose <sku> <lot> <uid> <received_by> <date>",
		Short: "Print the tag payload of an item",
		Long: `compose concatenates the item fields into the payload written to a tag,
truncated to 12 characters.`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := julian.Validate(args[4]); err != nil {
				return err
			}
			payload, err := tagdata.Compose(model.Item{
				SKU:        args[0],
				Lot:        args[1],
				UID:        args[2],
				ReceivedBy: args[3],
				Date:       args[4],
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, payload)
			if showHex {
				fmt.Fprintln(out, tagdata.ToHex(payload))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showHex, "hex", false, "also print the payload as hex")
	return cmd
}
