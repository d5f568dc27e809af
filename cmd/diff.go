package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/madstone-tech/dbt-lineage/internal/adapters/cli"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/encoding"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/filesystem"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/vcs"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

var (
	diffBase   string
	diffHead   string
	diffOutput string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the dependency graph between two VCS revisions",
	Args:  cobra.NoArgs,
	RunE:  runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffBase, "base", "", "base revision (required)")
	diffCmd.Flags().StringVar(&diffHead, "head", "", "head revision (default: working tree)")
	diffCmd.Flags().StringVarP(&diffOutput, "output", "o", "text", "output format: text, json")
	_ = diffCmd.MarkFlagRequired("base")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	engine := usecases.NewComputeDiff(
		vcs.NewMaterializer(),
		filesystem.NewProjectLoader(),
		filesystem.NewExtractor(),
		usecases.NewBuildGraph(),
	)

	diff, err := engine.Diff(ctx, absProjectRoot(ProjectRoot), diffBase, diffHead)
	if err != nil {
		return err
	}

	if diffOutput == "json" {
		out, err := encoding.NewEncoder().EncodeJSON(diff)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(out, '\n'))
		return err
	}

	if diffOutput != "text" {
		return fmt.Errorf("unknown output format %q (known: text, json)", diffOutput)
	}

	cli.NewReportFormatter().PrintDiffReport(diff)
	return nil
}
