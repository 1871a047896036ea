package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lineBalancing/internal/salbp"
)

type validateOutput struct {
	Valid            bool   `json:"valid"`
	Problem          string `json:"problem"`
	Tasks            int    `json:"tasks"`
	CycleTime        int    `json:"cycle_time"`
	Edges            int    `json:"edges"`
	TotalTime        int    `json:"total_time"`
	LowerBound       int    `json:"lower_bound"`
	TopologicalOrder []int  `json:"topological_order"`
}

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <instance>",
		Short: "Загрузить экземпляр и проверить его корректность",
		Long: `Разбирает файл экземпляра, проверяет отношение предшествования на ацикличность
и выводит сводку: количество задач, время такта, нижнюю оценку числа станций
и топологический порядок задач.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(a, cmd, args[0])
		},
	}
}

func runValidate(a *app, cmd *cobra.Command, path string) error {
	inst, err := a.prob.LoadFile(path)
	if err != nil {
		return err
	}
	order, err := salbp.NewGraph(inst).TopologicalOrder()
	if err != nil {
		return err
	}

	out := validateOutput{
		Valid:            true,
		Problem:          a.prob.Name(),
		Tasks:            inst.TaskCount(),
		CycleTime:        inst.CycleTime(),
		Edges:            len(inst.Edges()),
		TotalTime:        inst.TotalTime(),
		LowerBound:       inst.LowerBound(),
		TopologicalOrder: order,
	}

	w := cmd.OutOrStdout()
	if a.opts.format == "json" {
		return writeJSON(w, out)
	}

	fmt.Fprintf(w, "problem:           %s\n", out.Problem)
	fmt.Fprintf(w, "tasks:             %d\n", out.Tasks)
	fmt.Fprintf(w, "cycle time:        %d\n", out.CycleTime)
	fmt.Fprintf(w, "edges:             %d\n", out.Edges)
	fmt.Fprintf(w, "total time:        %d\n", out.TotalTime)
	fmt.Fprintf(w, "lower bound:       %d\n", out.LowerBound)
	fmt.Fprintf(w, "topological order: %s\n", joinInts(order, " "))
	fmt.Fprintln(w, okColor.Sprint("✓ instance valid"))
	return nil
}
