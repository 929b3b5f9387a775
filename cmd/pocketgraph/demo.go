package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alt-coder/pocketgraph/core"
	"github.com/alt-coder/pocketgraph/internal/demo"
	"github.com/spf13/cobra"
)

func newDemoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "demo [" + strings.Join(demo.Names(), "|") + "]",
		Short:     "Run a built-in graph and print its final action and shared state",
		Args:      cobra.ExactArgs(1),
		ValidArgs: demo.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, _ := cmd.Flags().GetStringToString("set")
			params := make(core.Params, len(sets))
			for k, v := range sets {
				params[k] = v
			}
			if _, ok := params["retries"]; !ok {
				params["retries"] = a.cfg.MaxRetries
			}

			flow, err := demo.Build(args[0], params)
			if err != nil {
				return err
			}

			shared := core.Shared{}
			action, err := flow.Run(a.runContext(cmd.Context()), shared)
			if err != nil {
				return fmt.Errorf("demo %s: %w", args[0], err)
			}
			return printResult(cmd.OutOrStdout(), action, shared)
		},
	}
	cmd.Flags().StringToString("set", nil, "Demo parameter as key=value (limit, approve, items, parallelism, retries)")
	return cmd
}

func printResult(w io.Writer, action core.Action, shared core.Shared) error {
	keys := make([]string, 0, len(shared))
	for k := range shared {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if _, err := fmt.Fprintf(w, "action: %s\n", action); err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s: %v\n", k, shared[k]); err != nil {
			return err
		}
	}
	return nil
}
