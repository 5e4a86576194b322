package main

import (
	"fmt"
	"os"

	"github.com/aretw0/iaee"
	"github.com/aretw0/iaee/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <experience>",
	Short: "Export the experience flow visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the experience steps. With --results,
answered sections are highlighted and the first unanswered one is marked current.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resultsPath, _ := cmd.Flags().GetString("results")
		eng := iaee.New(iaee.WithLogger(logger))

		exp, err := eng.Load(cmdContext(cmd), args[0])
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if resultsPath != "" {
			data, err := os.ReadFile(resultsPath)
			if err != nil {
				return fmt.Errorf("failed to read results: %w", err)
			}
			results, err := eng.ParseResults(resultsPath, data)
			if err != nil {
				return err
			}
			overlay = &graph.GraphOverlay{
				AnsweredSections: graph.Answered(exp, results),
				CurrentSection:   graph.Current(exp, results),
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(exp, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("results", "r", "", "Results document to overlay")
}
