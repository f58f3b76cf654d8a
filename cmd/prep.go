package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/callprep/internal/offer"
	"github.com/sells-group/callprep/internal/prep"
	"github.com/sells-group/callprep/internal/script"
	"github.com/sells-group/callprep/internal/store"
)

var (
	prepDiscountLow  float64
	prepDiscountHigh float64
)

var prepCmd = &cobra.Command{
	Use:   "prep <lead-id>",
	Short: "Build a prep pack for one lead and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.New(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		assembler, err := script.NewAssembler()
		if err != nil {
			return err
		}

		calc := offer.New(offer.Params{
			DefaultDiscountLow:        cfg.Offer.DiscountLow,
			DefaultDiscountHigh:       cfg.Offer.DiscountHigh,
			DelinquencyYearsThreshold: cfg.Offer.DelinquencyYearsThreshold,
		})
		builder := prep.NewBuilder(st, calc, assembler)

		low := prepDiscountLow
		if low == 0 {
			low = cfg.Offer.DiscountLow
		}
		high := prepDiscountHigh
		if high == 0 {
			high = cfg.Offer.DiscountHigh
		}

		pack, err := builder.BuildPack(ctx, args[0], low, high)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(pack); err != nil {
			return eris.Wrap(err, "prep: encode pack")
		}
		return nil
	},
}

func init() {
	prepCmd.Flags().Float64Var(&prepDiscountLow, "discount-low", 0, "low discount fraction (default from config)")
	prepCmd.Flags().Float64Var(&prepDiscountHigh, "discount-high", 0, "high discount fraction (default from config)")
	rootCmd.AddCommand(prepCmd)
}
