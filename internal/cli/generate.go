package cli

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/schedboard/internal/config"
	"github.com/SmitUplenchwar2687/schedboard/internal/recorder"
	"github.com/SmitUplenchwar2687/schedboard/internal/scheduler"
)

func newGenerateCmd() *cobra.Command {
	var (
		output       string
		count        int
		appointments int
		interviewers int
		duration     time.Duration
		pattern      string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate sample update logs and config",
		Long: `Generates sample data for testing and experimentation.

Use "generate updates" to create a sample push-message log for replay.
Use "generate config" to create an example config JSON file.`,
	}

	updatesCmd := &cobra.Command{
		Use:   "updates",
		Short: "Generate a sample push-message log",
		Long: `Creates a log of SET_INTERVIEW messages against appointment ids 1..N.
Roughly one in four messages cancels the interview.

Patterns:
  steady    Evenly distributed messages
  burst     Concentrated bursts with quiet periods
  ramp      Gradually increasing message rate`,
		Example: `  schedboard generate updates --output updates.json --count 100 --appointments 20
  schedboard generate updates --output burst.json --count 200 --pattern burst --duration 10m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = "updates.json"
			}
			if count <= 0 || appointments <= 0 || interviewers <= 0 {
				return fmt.Errorf("--count, --appointments and --interviewers must be positive")
			}
			if duration <= 0 {
				return fmt.Errorf("--duration must be positive")
			}

			records := generateUpdates(count, appointments, interviewers, duration, pattern)

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating file: %w", err)
			}
			defer f.Close()

			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			if err := enc.Encode(records); err != nil {
				return fmt.Errorf("writing records: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %d update records to %s\n", len(records), output)
			fmt.Fprintf(out, "  Appointments: %d\n", appointments)
			fmt.Fprintf(out, "  Duration:     %s\n", duration)
			fmt.Fprintf(out, "  Pattern:      %s\n", pattern)
			return nil
		},
	}

	updatesCmd.Flags().StringVar(&output, "output", "updates.json", "output file path")
	updatesCmd.Flags().IntVar(&count, "count", 100, "number of records to generate")
	updatesCmd.Flags().IntVar(&appointments, "appointments", 20, "number of distinct appointment ids")
	updatesCmd.Flags().IntVar(&interviewers, "interviewers", 3, "number of distinct interviewer ids")
	updatesCmd.Flags().DurationVar(&duration, "duration", 5*time.Minute, "time span for generated messages")
	updatesCmd.Flags().StringVar(&pattern, "pattern", "steady", "message pattern (steady, burst, ramp)")

	configCmd := &cobra.Command{
		Use:     "config",
		Short:   "Generate an example config JSON file",
		Example: `  schedboard generate config --output schedboard.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = "schedboard.json"
			}
			if err := config.WriteExample(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated example config at %s\n", output)
			return nil
		},
	}

	configCmd.Flags().StringVar(&output, "output", "schedboard.json", "output file path")

	cmd.AddCommand(updatesCmd, configCmd)
	return cmd
}

var students = []string{
	"Archie Cohen",
	"Lydia Miller-Jones",
	"Leopold Silvers",
	"Maria Boucher",
	"Jamal Jordan",
	"Yuko Smith",
}

// updateSource builds one random message at a given time.
type updateSource struct {
	rng          *rand.Rand
	appointments int
	interviewers int
}

func (s updateSource) at(t time.Time) recorder.UpdateRecord {
	rec := recorder.UpdateRecord{
		Timestamp: t,
		Type:      scheduler.TypeSetInterview,
		ID:        s.rng.Intn(s.appointments) + 1,
	}
	if s.rng.Intn(4) != 0 {
		rec.Interview = &scheduler.Interview{
			Student:     students[s.rng.Intn(len(students))],
			Interviewer: s.rng.Intn(s.interviewers) + 1,
		}
	}
	return rec
}

func generateUpdates(count, appointments, interviewers int, duration time.Duration, pattern string) []recorder.UpdateRecord {
	src := updateSource{
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		appointments: appointments,
		interviewers: interviewers,
	}
	start := time.Now().Truncate(time.Second)

	switch pattern {
	case "burst":
		return generateBurst(src, start, count, duration)
	case "ramp":
		return generateRamp(src, start, count, duration)
	default: // "steady"
		return generateSteady(src, start, count, duration)
	}
}

func generateSteady(src updateSource, start time.Time, count int, dur time.Duration) []recorder.UpdateRecord {
	interval := dur / time.Duration(count)
	records := make([]recorder.UpdateRecord, count)
	for i := range records {
		records[i] = src.at(start.Add(time.Duration(i) * interval))
	}
	return records
}

func generateBurst(src updateSource, start time.Time, count int, dur time.Duration) []recorder.UpdateRecord {
	records := make([]recorder.UpdateRecord, 0, count)
	numBursts := 4
	burstSize := count / numBursts
	burstGap := dur / time.Duration(numBursts)

	for b := 0; b < numBursts; b++ {
		burstStart := start.Add(time.Duration(b) * burstGap)
		for i := 0; i < burstSize; i++ {
			// Messages within a burst are very close together.
			offset := time.Duration(src.rng.Intn(1000)) * time.Millisecond
			records = append(records, src.at(burstStart.Add(offset)))
		}
	}

	// Fill remaining.
	for len(records) < count {
		records = append(records, src.at(start.Add(time.Duration(src.rng.Int63n(int64(dur))))))
	}

	return records
}

func generateRamp(src updateSource, start time.Time, count int, dur time.Duration) []recorder.UpdateRecord {
	records := make([]recorder.UpdateRecord, 0, count)
	// Quadratic spacing puts more messages towards the end.
	for i := 0; i < count; i++ {
		frac := float64(i) / float64(count)
		records = append(records, src.at(start.Add(time.Duration(frac*frac*float64(dur)))))
	}
	return records
}
