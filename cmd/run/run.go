// Package run executes the full news pipeline
package run

import (
	"context"

	"github.com/spf13/cobra"

	"fjacquet/sdw-news/cmd/root"
	"fjacquet/sdw-news/internal/logging"
)

var (
	inputFile  string
	outputFile string
)

// Cmd represents the run command
var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Run the segmentation and news pipeline",
	Long: `Run loads the customer dataset, classifies customers by balance, resolves one
template per segment and writes every customer with a personalized news message.`,
	RunE: runFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input dataset (CSV or XLSX, default from input.file)")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output JSON file (default from output.file)")
}

func runFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := root.NewContainer(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			root.Log.WithError(cerr).Warn("Failed to release resources")
		}
	}()

	in := inputFile
	if in == "" {
		in = root.AppConfig.Input.File
	}
	out := outputFile
	if out == "" {
		out = root.AppConfig.Output.File
	}

	customers, err := c.GetPipeline().Run(ctx, in, out)
	if err != nil {
		return err
	}
	root.Log.Info("Pipeline completed",
		logging.Field{Key: logging.FieldCount, Value: len(customers)},
		logging.Field{Key: logging.FieldOutputFile, Value: out})
	return nil
}
