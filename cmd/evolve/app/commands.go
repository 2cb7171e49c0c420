/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package app

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"k8s.io/utils/clock"

	"sigs.k8s.io/evolutionary-algorithms/pkg/multiobjective/benchmarks"
)

// NewEvolveCommand creates the evolve root command with its subcommands.
func NewEvolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Evolutionary single- and multi-objective optimization of benchmark problems",
		Long: `evolve runs differential evolution or NSGA-II on a registered benchmark
problem and reports the best individuals of the final generation.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(newRunCommand(), newListProblemsCommand())
	return cmd
}

func newRunCommand() *cobra.Command {
	opts := NewOptions()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Optimize a benchmark problem",
		Example: `  evolve run --problem sphere --dimensions 2 --seed 0
  evolve run --problem zdt1 --algorithm NSGA-II --max-generations 250 --plot-dir /tmp
  evolve run --config run.yaml -o report.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := opts.Config(cmd.Flags())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := &Runner{
				Args:          args,
				Clock:         clock.RealClock{},
				Out:           cmd.OutOrStdout(),
				ProgressEvery: opts.ProgressEvery,
			}
			_, err = runner.Run(ctx)
			return err
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func newListProblemsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list-problems",
		Aliases: []string{"problems"},
		Short:   "List the registered benchmark problems",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listProblems(cmd.OutOrStdout())
		},
	}
}

func listProblems(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tALIASES\tDESCRIPTION")
	for _, name := range benchmarks.Names() {
		description, aliases, _ := benchmarks.Describe(name)
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, strings.Join(aliases, ","), description)
	}
	return w.Flush()
}
