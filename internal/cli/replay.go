package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/schedboard/internal/clock"
	"github.com/SmitUplenchwar2687/schedboard/internal/dashboard"
	"github.com/SmitUplenchwar2687/schedboard/internal/focus"
	"github.com/SmitUplenchwar2687/schedboard/internal/replay"
	"github.com/SmitUplenchwar2687/schedboard/internal/scheduler"
)

func newReplayCmd(root *rootOptions) *cobra.Command {
	var (
		file       string
		stateFile  string
		speed      float64
		ids        []int
		outcomes   []string
		panel      int
		outputJSON bool
		endpoints  endpointOptions
	)

	cmd := &cobra.Command{
		Use:   "replay [FILE]",
		Short: "Replay recorded push messages through the dashboard reducer",
		Long: `Replays a push-message log (as written by "serve --record") against a
starting state and prints the panels the dashboard would show afterwards.

The starting state is fetched from the scheduler API unless --state names a
JSON file with "days", "appointments" and "interviewers".

Records are replayed in timestamp order. Speed: 0 = instant, 1 = real-time,
10 = 10x.`,
		Example: `  schedboard replay updates.json
  schedboard replay updates.json --state snapshot.json --ids 3,4
  schedboard replay --file updates.json --outcomes applied --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				file = args[0]
			}
			if file == "" {
				return fmt.Errorf("a record file is required")
			}

			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			endpoints.apply(cmd, &cfg)

			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var start scheduler.State
			if stateFile != "" {
				start, err = loadState(stateFile)
			} else {
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid config: %w", err)
				}
				start, err = newAPIClient(cfg, log).FetchAll(ctx)
			}
			if err != nil {
				return fmt.Errorf("loading starting state: %w", err)
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("opening file: %w", err)
			}
			defer f.Close()

			filter := replay.Filter{IDs: ids}
			for _, o := range outcomes {
				filter.Outcomes = append(filter.Outcomes, scheduler.Outcome(o))
			}

			mc := clock.NewManualClock(time.Now().Truncate(time.Second))
			r := replay.New(mc, speed, filter)
			if err := r.Load(f); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !outputJSON {
				fmt.Fprintf(out, "Replaying %s at %.0fx speed...\n\n", file, speed)
			}

			var results []replay.Result
			summary, err := r.Run(ctx, start, func(res replay.Result) {
				if outputJSON {
					results = append(results, res)
					return
				}
				detail := "cleared"
				if iv := res.Record.Interview; iv != nil {
					detail = fmt.Sprintf("student=%q interviewer=%d", iv.Student, iv.Interviewer)
				}
				fmt.Fprintf(out, "  [%-7s] %s appointment=%d %s\n",
					strings.ToUpper(string(res.Outcome)),
					res.Record.Timestamp.Format("15:04:05"),
					res.Record.ID,
					detail)
			})
			if err != nil {
				return err
			}

			vs := dashboard.ViewState{Data: summary.State}
			if panel > 0 {
				vs.Focus = focus.On(panel)
			}
			page := dashboard.Render(vs, dashboard.DefaultPanels())

			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"results": results,
					"summary": summary,
					"page":    page,
				})
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "--- Replay Summary ---")
			fmt.Fprintf(out, "  Total records:  %d\n", summary.TotalRecords)
			fmt.Fprintf(out, "  Filtered:       %d\n", summary.Filtered)
			fmt.Fprintf(out, "  Replayed:       %d\n", summary.Replayed)
			fmt.Fprintf(out, "  Applied:        %d\n", summary.Applied)
			fmt.Fprintf(out, "  Dropped:        %d\n", summary.Dropped)
			fmt.Fprintf(out, "  Ignored:        %d\n", summary.Ignored)
			fmt.Fprintf(out, "  Recorded span:  %s\n", summary.Duration)
			fmt.Fprintf(out, "  Wall time:      %s\n", summary.WallDuration.Round(time.Millisecond))

			if len(summary.PerAppointment) > 1 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "  Per appointment:")
				keys := make([]int, 0, len(summary.PerAppointment))
				for id := range summary.PerAppointment {
					keys = append(keys, id)
				}
				sort.Ints(keys)
				for _, id := range keys {
					fmt.Fprintf(out, "    %d: %d updates\n", id, summary.PerAppointment[id])
				}
			}

			fmt.Fprintln(out)
			return dashboard.WriteText(out, page)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to recorded update JSON file")
	cmd.Flags().StringVar(&stateFile, "state", "", "starting state JSON file (default: fetch from the API)")
	cmd.Flags().Float64Var(&speed, "speed", 0, "replay speed (0=instant, 1=real-time, 10=10x)")
	cmd.Flags().IntSliceVar(&ids, "ids", nil, "filter by appointment ids (comma-separated)")
	cmd.Flags().StringSliceVar(&outcomes, "outcomes", nil, "filter by recorded outcome (applied, ignored, dropped)")
	cmd.Flags().IntVar(&panel, "panel", 0, "show only this panel")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output results as JSON")
	endpoints.addFlags(cmd, false)

	return cmd
}

func loadState(path string) (scheduler.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scheduler.State{}, err
	}
	s := scheduler.Empty()
	if err := json.Unmarshal(data, &s); err != nil {
		return scheduler.State{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if s.Days == nil {
		s.Days = []scheduler.Day{}
	}
	if s.Appointments == nil {
		s.Appointments = map[int]scheduler.Appointment{}
	}
	if s.Interviewers == nil {
		s.Interviewers = map[int]scheduler.Interviewer{}
	}
	return s, nil
}
