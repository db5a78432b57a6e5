package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/number"

	"github.com/tn3wman/qnty-sub000"
)

const maxInputBytes = 1 << 20 // 1 MiB

func (a *app) formatQuantity(q qnty.Quantity) string {
	s := a.printer.Sprint(number.Decimal(q.Value(), number.MaxFractionDigits(9)))
	if sym := q.Unit().String(); sym != "" && sym != "dimensionless" {
		s += " " + sym
	}
	return s
}

// ============================================================
// convert
// ============================================================

func newConvertCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "convert VALUE FROM TO",
		Short:   "Convert a value between units of the same dimension",
		Example: "  qnty convert 1 in mm\n  qnty convert 100 degC degF",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parse value %q: %w", args[0], err)
			}
			from, err := a.reg.Get(args[1])
			if err != nil {
				return err
			}
			q, err := qnty.Q(v, from).ToAlias(args[2])
			if err != nil {
				return err
			}
			a.log.V(1).Info("converted", "from", from.Name(), "to", q.Unit().Name(), "value", q.Value())
			fmt.Fprintln(cmd.OutOrStdout(), a.formatQuantity(q))
			return nil
		},
	}
}

// ============================================================
// units
// ============================================================

func newUnitsCommand(a *app) *cobra.Command {
	var like string
	cmd := &cobra.Command{
		Use:   "units",
		Short: "List registered units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			units := a.reg.Units()
			if like != "" {
				u, err := a.reg.Get(like)
				if err != nil {
					return err
				}
				units = a.reg.UnitsFor(u.Signature())
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tNAME\tDIMENSION\tSI FACTOR")
			for _, u := range units {
				factor := a.printer.Sprint(number.Decimal(u.Factor(), number.MaxFractionDigits(12)))
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Symbol(), u.Name(), u.Signature(), factor)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&like, "like", "", "only list units sharing this unit's dimension")
	return cmd
}

// ============================================================
// solve
// ============================================================

func newSolveCommand(a *app) *cobra.Command {
	var output string
	var strict bool
	cmd := &cobra.Command{
		Use:   "solve FILE",
		Short: "Solve an equation-system document (YAML or JSON; - reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			sys, err := qnty.DecodeSystem(a.reg, data, a.systemOptions()...)
			if err != nil {
				return err
			}
			report, err := qnty.SolveSystem(sys)
			if err != nil {
				return err
			}
			var out []byte
			switch output {
			case "yaml":
				out, err = report.YAML()
			case "json":
				out, err = json.MarshalIndent(report, "", "  ")
				out = append(out, '\n')
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
			if strict && (!report.Solved || len(report.Violated) > 0) {
				return fmt.Errorf("system not solved: unresolved %v, violated %v", report.Unresolved, report.Violated)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero unless every variable is solved and every equation holds")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxInputBytes))
	}
	return os.ReadFile(path)
}

// ============================================================
// tool
// ============================================================

func newToolCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tool",
		Short: "Answer one JSON tool request read from stdin",
		Long: "Reads {\"tool\": NAME, \"params\": {...}} (JSON or YAML) from stdin and writes the JSON response.\n" +
			"Use the tool_spec tool to list the available tools.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, "-")
			if err != nil {
				return err
			}
			resp := a.handle(data)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
}

func (a *app) handle(data []byte) (resp qnty.ToolResponse) {
	defer func() {
		if rec := recover(); rec != nil {
			a.log.Error(fmt.Errorf("%v", rec), "panic in tool call", "stack", string(debug.Stack()))
			resp = qnty.ToolResponse{Error: fmt.Sprintf("internal error: %v", rec)}
		}
	}()
	// YAML is accepted too; JSON passes through unchanged.
	var req qnty.ToolRequest
	if err := qnty.DecodeYAML(data, &req); err != nil {
		return qnty.ToolResponse{Error: "invalid request: " + err.Error()}
	}
	a.log.V(1).Info("tool call", "tool", req.Tool)
	return qnty.HandleToolCall(a.reg, req, a.systemOptions()...)
}
