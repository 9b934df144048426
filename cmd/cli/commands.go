package main

import (
	"context"
	"fmt"
	"strings"

	"samplemeta/domain/experiment"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type projectFlags struct {
	name        string
	owner       string
	description string
	groups      []string
}

func (p *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.name, "name", "", "Experiment name")
	cmd.Flags().StringVar(&p.owner, "owner", "", "Experiment owner")
	cmd.Flags().StringVar(&p.description, "description", "", "Experiment description")
	cmd.Flags().StringSliceVarP(&p.groups, "group", "g", nil, "Expected group names in column order (repeatable)")
	_ = cmd.MarkFlagRequired("name")
}

func (p *projectFlags) descriptor() (experiment.Descriptor, error) {
	d := experiment.NewDescriptor(p.name, p.owner, p.description, p.groups...)
	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}

func newTemplateCmd() *cobra.Command {
	var project projectFlags
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a blank data-entry workbook for an experiment",
		Long: `Write a blank data-entry workbook with the experiment name and its groups
filled in, ready for lab staff to complete.

Example: samplemeta template --name "Liver study" -g Placebo -g Drug -o liver.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := project.descriptor()
			if err != nil {
				return err
			}
			c, err := newContainer()
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.ReplaceAll(d.Name, " ", "_") + "_metadata.xlsx"
			}
			if err := c.Writer.WriteFile(output, d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Template written to %s\n", output)
			return nil
		},
	}
	project.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default <name>_metadata.xlsx)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var project projectFlags
	var jobs int

	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Read completed workbooks and print the import results as JSON",
		Long: `Read completed data-entry workbooks against the expected groups and print
one JSON result per file, in argument order. Files are read concurrently.

Example: samplemeta import --name "Liver study" -g Placebo -g Drug entry1.xlsx entry2.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := project.descriptor()
			if err != nil {
				return err
			}
			c, err := newContainer()
			if err != nil {
				return err
			}

			results, err := importAll(cmd.Context(), c.Importer, d, args, jobs)
			if err != nil {
				return err
			}

			failed := 0
			for i, r := range results {
				if !r.Success() {
					failed++
				}
				if err := writeJSON(cmd.OutOrStdout(), fileResult{File: args[i], ImportPayload: r.Payload()}); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d imports failed", failed, len(results))
			}
			return nil
		},
	}
	project.register(cmd)
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Number of workbooks read in parallel")
	return cmd
}

type fileResult struct {
	File string `json:"file"`
	experiment.ImportPayload
}

type fileImporter interface {
	ImportFile(project experiment.Descriptor, path string) *experiment.ImportResult
}

// importAll imports paths with at most jobs in flight, keeping input order
func importAll(ctx context.Context, importer fileImporter, d experiment.Descriptor, paths []string, jobs int) ([]*experiment.ImportResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs < 1 {
		jobs = 1
	}
	results := make([]*experiment.ImportResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = importer.ImportFile(d, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func newSubjectsCmd() *cobra.Command {
	var groupColumn string

	cmd := &cobra.Command{
		Use:   "subjects FILE",
		Short: "Read a subject roster (CSV) and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			reader := c.Roster
			if groupColumn != "" {
				reader.GroupColumn = groupColumn
			}
			result := reader.ReadFile(args[0])
			if err := writeJSON(cmd.OutOrStdout(), result.Payload()); err != nil {
				return err
			}
			if !result.Success() {
				return fmt.Errorf("%s", result.Message())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&groupColumn, "group-column", "", "Roster column naming each subject's group")
	return cmd
}

func newTyposCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "typos VALUE...",
		Short: "Show the spelling suggestion for cell values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			for _, raw := range args {
				suggestion, ok := c.Suggester.Suggest(raw)
				if !ok || suggestion == raw {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t(ok)\n", raw)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", raw, suggestion)
			}
			return nil
		},
	}
}
