package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lineBalancing/internal/salbp"
)

type stationView struct {
	Station  int   `json:"station"`
	Load     int   `json:"load"`
	Tasks    []int `json:"tasks"`
	Overflow int   `json:"overflow,omitempty"`
}

type edgeView struct {
	Pred int `json:"pred"`
	Succ int `json:"succ"`
}

type evalOutput struct {
	Problem       string        `json:"problem"`
	Objective     float64       `json:"objective"`
	Feasible      bool          `json:"feasible"`
	StationsUsed  int           `json:"stations_used"`
	CycleTime     int           `json:"cycle_time"`
	Stations      []stationView `json:"stations"`
	ViolatedEdges []edgeView    `json:"violated_edges"`
}

func newEvalCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <instance> <assignment>...",
		Short: "Оценить назначение задач по станциям",
		Long: `Оценивает назначение: i-я позиция — номер станции (с нуля) задачи
с i-м по возрастанию идентификатором. Номера станций перечисляются через запятую
или пробел, например: salbp eval line.alb 0,0,1,0,2`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(a, cmd, args[0], args[1:])
		},
	}
}

func runEval(a *app, cmd *cobra.Command, path string, raw []string) error {
	assignment, err := parseAssignment(raw)
	if err != nil {
		return err
	}
	inst, err := a.prob.LoadFile(path)
	if err != nil {
		return err
	}
	res, err := a.prob.Evaluate(inst, assignment)
	if err != nil {
		return err
	}

	out := evalOutput{
		Problem:       a.prob.Name(),
		Objective:     res.Objective,
		Feasible:      res.Feasible,
		StationsUsed:  res.StationsUsed,
		CycleTime:     inst.CycleTime(),
		Stations:      make([]stationView, 0, len(res.Stations)),
		ViolatedEdges: make([]edgeView, 0, len(res.ViolatedEdges)),
	}
	for _, s := range res.Stations {
		v := stationView{Station: s.Station, Load: s.Load, Tasks: s.Tasks}
		if s.Load > inst.CycleTime() {
			v.Overflow = s.Load - inst.CycleTime()
		}
		out.Stations = append(out.Stations, v)
	}
	for _, e := range res.ViolatedEdges {
		out.ViolatedEdges = append(out.ViolatedEdges, edgeView{Pred: e.Pred, Succ: e.Succ})
	}

	w := cmd.OutOrStdout()
	if a.opts.format == "json" {
		return writeJSON(w, out)
	}

	fmt.Fprintf(w, "problem:   %s\n", out.Problem)
	fmt.Fprintf(w, "objective: %s\n", formatObjective(out.Objective))
	if out.Feasible {
		fmt.Fprintf(w, "feasible:  %s\n", okColor.Sprint("yes"))
	} else {
		fmt.Fprintf(w, "feasible:  %s\n", failColor.Sprint("no"))
	}
	fmt.Fprintf(w, "stations:  %d\n", out.StationsUsed)
	for _, s := range out.Stations {
		line := fmt.Sprintf("  station %d: load %d/%d tasks [%s]", s.Station, s.Load, out.CycleTime, joinInts(s.Tasks, " "))
		if s.Overflow > 0 {
			line += warnColor.Sprintf(" overflow %d", s.Overflow)
		}
		fmt.Fprintln(w, line)
	}
	if len(res.ViolatedEdges) > 0 {
		parts := make([]string, len(res.ViolatedEdges))
		for i, e := range res.ViolatedEdges {
			parts[i] = e.String()
		}
		fmt.Fprintf(w, "violated precedence: %s\n", warnColor.Sprint(strings.Join(parts, ", ")))
	}
	return nil
}

// parseAssignment accepts station indices separated by commas and/or spread over several arguments.
func parseAssignment(raw []string) ([]int, error) {
	fields := strings.FieldsFunc(strings.Join(raw, " "), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, &salbp.EvaluationError{Msg: "empty assignment"}
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, &salbp.EvaluationError{Msg: fmt.Sprintf("assignment[%d]=%q is not an integer station index", i, f)}
		}
		out[i] = v
	}
	return out, nil
}
