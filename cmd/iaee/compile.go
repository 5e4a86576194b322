package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/iaee/internal/apispec"
	"github.com/aretw0/iaee/internal/cli"
	"github.com/aretw0/iaee/internal/presentation/tui"
	"github.com/aretw0/iaee/pkg/domain"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile <experience>",
	Short: "Compile collected results into a Markdown report",
	Long: `Validates the experience, then renders it together with a results document
(and optional reviewer comments) as Markdown.

Results and comments are JSON or YAML objects keyed by section ID.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resultsPath, _ := cmd.Flags().GetString("results")
		commentsPath, _ := cmd.Flags().GetString("comments")
		outPath, _ := cmd.Flags().GetString("out")
		openapiPath, _ := cmd.Flags().GetString("openapi")
		pretty, _ := cmd.Flags().GetBool("pretty")
		if !cmd.Flags().Changed("pretty") {
			pretty = cfg.Output.Pretty && tui.IsTerminal(os.Stdout)
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()
		ctx := cmdContext(cmd)

		exp, err := rt.Engine.Load(ctx, args[0])
		if err != nil {
			if errors.Is(err, domain.ErrInvalidExperience) {
				cli.PrintIssues(cmd.ErrOrStderr(), args[0], err)
				return errReported
			}
			return err
		}

		var results domain.Results
		if resultsPath != "" {
			data, err := os.ReadFile(resultsPath)
			if err != nil {
				return fmt.Errorf("failed to read results: %w", err)
			}
			if results, err = rt.Engine.ParseResults(resultsPath, data); err != nil {
				return fmt.Errorf("invalid results %s: %w", resultsPath, err)
			}
		}

		var comments domain.Comments
		if commentsPath != "" {
			data, err := os.ReadFile(commentsPath)
			if err != nil {
				return fmt.Errorf("failed to read comments: %w", err)
			}
			if comments, err = rt.Engine.ParseComments(commentsPath, data); err != nil {
				return fmt.Errorf("invalid comments %s: %w", commentsPath, err)
			}
		}

		markdown := rt.Engine.Compile(ctx, exp, results, comments)

		if openapiPath != "" {
			if err := writeOpenAPI(cmd, openapiPath, exp, results); err != nil {
				return err
			}
		}

		if outPath != "" {
			if err := os.WriteFile(outPath, []byte(markdown), 0644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			logger.Info("report written", "path", outPath)
			return nil
		}

		if pretty {
			render, err := tui.NewRenderer(tui.Width(os.Stdout))
			if err != nil {
				return err
			}
			rendered, err := render(markdown)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), markdown)
		return nil
	},
}

func writeOpenAPI(cmd *cobra.Command, path string, exp *domain.Experience, results domain.Results) error {
	doc, err := apispec.Build(cmdContext(cmd), exp, results)
	if err != nil {
		return err
	}

	var data []byte
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		data, err = apispec.MarshalJSON(doc)
	} else {
		data, err = apispec.MarshalYAML(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write OpenAPI document: %w", err)
	}
	logger.Info("OpenAPI document written", "path", path, "paths", doc.Paths.Len())
	return nil
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("results", "r", "", "Results document (JSON or YAML)")
	compileCmd.Flags().StringP("comments", "c", "", "Reviewer comments document (JSON or YAML)")
	compileCmd.Flags().StringP("out", "o", "", "Write the report to this file instead of stdout")
	compileCmd.Flags().Bool("pretty", false, "Render the report for the terminal")
	compileCmd.Flags().String("openapi", "", "Also export api-builder results as OpenAPI 3 (.yaml or .json)")
}
