package main

import (
	"fmt"
	"io"

	"github.com/alt-coder/pocketgraph/core"
	"github.com/alt-coder/pocketgraph/internal/resume"
	"github.com/alt-coder/pocketgraph/providers"
	"github.com/spf13/cobra"
)

func newResumeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume FILE",
		Short: "Extract name, email, experience and matching skills from a resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("provider")
			if name == "" {
				name = a.cfg.Provider
			}
			provider, err := providers.New(cmd.Context(), name)
			if err != nil {
				return err
			}
			skills, _ := cmd.Flags().GetStringSlice("skill")

			flow := resume.NewFlow(provider, skills,
				core.WithMaxRetries(a.cfg.MaxRetries), core.WithWait(a.cfg.RetryWait))
			shared := core.Shared{resume.KeyPath: args[0]}
			if _, err := flow.Run(a.runContext(cmd.Context()), shared); err != nil {
				return fmt.Errorf("resume: %w", err)
			}

			data, _ := core.Get[*resume.Data](shared, resume.KeyData)
			matched, _ := core.Get[[]string](shared, resume.KeyMatched)
			printResume(cmd.OutOrStdout(), data, matched)
			return nil
		},
	}
	cmd.Flags().String("provider", "", "LLM provider; overrides POCKETGRAPH_PROVIDER")
	cmd.Flags().StringSlice("skill", nil, "Target skill to match (repeatable; defaults to a built-in list)")
	return cmd
}

func printResume(w io.Writer, data *resume.Data, matched []string) {
	fmt.Fprintln(w, "=== Resume ===")
	fmt.Fprintf(w, "Name: %s\n", data.Name)
	fmt.Fprintf(w, "Email: %s\n", data.Email)

	fmt.Fprintln(w, "\nExperience:")
	if len(data.Experience) == 0 {
		fmt.Fprintln(w, "  none found")
	}
	for i, exp := range data.Experience {
		fmt.Fprintf(w, "  %d. %s at %s\n", i+1, exp.Title, exp.Company)
	}

	fmt.Fprintln(w, "\nMatched skills:")
	if len(matched) == 0 {
		fmt.Fprintln(w, "  none found")
	}
	for i, skill := range matched {
		fmt.Fprintf(w, "  %d. %s\n", i+1, skill)
	}
}
