// Package segment prints the segment a balance falls into
package segment

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"fjacquet/sdw-news/internal/segmenter"
)

var balance string

// Cmd represents the segment command
var Cmd = &cobra.Command{
	Use:   "segment",
	Short: "Classify a balance into a customer segment",
	Long:  `Classify a balance into a customer segment: starter up to 5000, growing up to 10000, investor above.`,
	RunE:  segmentFunc,
}

func init() {
	Cmd.Flags().StringVarP(&balance, "balance", "b", "", "Account balance to classify, e.g. 7500.25")
	_ = Cmd.MarkFlagRequired("balance")
}

func segmentFunc(cmd *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(strings.TrimSpace(balance))
	if err != nil {
		return fmt.Errorf("invalid balance %q: %w", balance, err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), segmenter.Classify(amount))
	return err
}
