// Package templates resolves segment templates and exports them as YAML
package templates

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fjacquet/sdw-news/cmd/root"
	"fjacquet/sdw-news/internal/models"
	"fjacquet/sdw-news/internal/templategen"
)

var (
	segmentName string
	outputFile  string
)

// Cmd represents the templates command
var Cmd = &cobra.Command{
	Use:   "templates",
	Short: "Resolve segment templates and print them as YAML",
	Long: `Resolve the template of every segment (or only --segment) using the configured
text-generation provider, falling back to fixed copy, and write a YAML snapshot.`,
	RunE: templatesFunc,
}

func init() {
	Cmd.Flags().StringVarP(&segmentName, "segment", "s", "", "Only resolve this segment (starter, growing, investor)")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the snapshot to a file instead of stdout")
}

func templatesFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	segments := models.Segments()
	if segmentName != "" {
		seg, err := models.ParseSegment(segmentName)
		if err != nil {
			return err
		}
		segments = []models.Segment{seg}
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

	resolved := templategen.BuildTemplateMap(ctx, c.GetGenerator(), segments)

	if outputFile == "" {
		return c.GetStore().SaveTemplates(cmd.OutOrStdout(), resolved)
	}

	if dir := filepath.Dir(outputFile); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}
	f, err := os.Create(outputFile) // #nosec G304 -- path comes from the command line
	if err != nil {
		return fmt.Errorf("error creating templates file: %w", err)
	}
	if err := c.GetStore().SaveTemplates(f, resolved); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
