package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/madstone-tech/dbt-lineage/internal/adapters/cli"
	"github.com/madstone-tech/dbt-lineage/internal/adapters/encoding"
	"github.com/madstone-tech/dbt-lineage/internal/core/entities"
	"github.com/madstone-tech/dbt-lineage/internal/core/usecases"
)

var impactOutput string

var impactCmd = &cobra.Command{
	Use:   "impact <MODEL>",
	Short: "Report everything downstream of MODEL, classified by severity",
	Args:  cobra.ExactArgs(1),
	RunE:  runImpact,
}

func init() {
	impactCmd.Flags().StringVarP(&impactOutput, "output", "o", "text", "output format: text, json, toon")
	rootCmd.AddCommand(impactCmd)
}

func runImpact(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	g, _, err := buildGraph(ctx, buildOptions{
		projectRoot: ProjectRoot,
		include:     kindInclude(),
	})
	if err != nil {
		return err
	}

	result, err := usecases.NewAnalyzeImpact().Analyze(g, args[0])
	if err != nil {
		return err
	}

	switch impactOutput {
	case "json":
		out, err := encoding.NewEncoder().EncodeJSON(result)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(out, '\n'))
		return err

	case "toon":
		fmt.Println(encoding.FormatImpactTOON(impactSummary(result)))
		return nil

	case "text":
		cli.NewReportFormatter().PrintImpactReport(result)
		return nil

	default:
		return fmt.Errorf("unknown output format %q (known: text, json, toon)", impactOutput)
	}
}

// impactSummary projects an ImpactResult into the compact TOON-friendly
// shape, preserving Reached's deterministic BFS order.
func impactSummary(result *entities.ImpactResult) encoding.ImpactSummary {
	return encoding.ImpactSummary{
		Root:     result.Root,
		Reached:  len(result.Reached),
		Critical: result.CountsBySeverity[entities.SeverityCritical],
		High:     result.CountsBySeverity[entities.SeverityHigh],
		Medium:   result.CountsBySeverity[entities.SeverityMedium],
		Low:      result.CountsBySeverity[entities.SeverityLow],
		Names:    result.Reached,
	}
}
