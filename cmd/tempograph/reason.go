package tempograph

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tempograph/tempograph/pkg/config"
	"github.com/tempograph/tempograph/pkg/network"
	"github.com/tempograph/tempograph/pkg/types"
)

var reasonCmd = &cobra.Command{
	Use:   "reason [events file]",
	Short: "Reason about a batch of events from a YAML file",
	Long: `Reason about a batch of events described in a YAML file. Events may
carry explicit timestamps or free-text descriptions that the temporal
parser resolves. The command prints the derived constraints, inferences
and any inconsistencies, and can order a subset of the events.

Example events file:

  events:
    - id: breakfast
      start: 2020-01-01T08:00:00Z
      end: 2020-01-01T09:00:00Z
    - id: standup
      description: "the standup happened on 2020-01-01"`,
	Args: cobra.ExactArgs(1),
	RunE: runReason,
}

var (
	reasonOrder  []string
	reasonOutput string
)

func init() {
	rootCmd.AddCommand(reasonCmd)

	reasonCmd.Flags().StringSliceVar(&reasonOrder, "order", nil, "Event IDs to place in temporal order")
	reasonCmd.Flags().StringVarP(&reasonOutput, "output", "o", "", "Write results to a YAML file")
}

// eventsFile is the YAML shape the reason command consumes.
type eventsFile struct {
	Events []struct {
		ID          string     `yaml:"id"`
		Description string     `yaml:"description"`
		Start       *time.Time `yaml:"start"`
		End         *time.Time `yaml:"end"`
	} `yaml:"events"`
}

// reasonReport is the YAML shape the reason command emits with --output.
type reasonReport struct {
	Result          resultReport       `yaml:"result"`
	Constraints     []constraintReport `yaml:"constraints"`
	Inconsistencies []string           `yaml:"inconsistencies,omitempty"`
	Order           []string           `yaml:"order,omitempty"`
}

type resultReport struct {
	EventsIdentified     int `yaml:"events_identified"`
	ConstraintsAdded     int `yaml:"constraints_added"`
	InferencesMade       int `yaml:"inferences_made"`
	InconsistenciesFound int `yaml:"inconsistencies_found"`
}

type constraintReport struct {
	Event1     string  `yaml:"event1"`
	Event2     string  `yaml:"event2"`
	Relation   string  `yaml:"relation"`
	Confidence float64 `yaml:"confidence"`
	Provenance string  `yaml:"provenance"`
}

func runReason(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read events file: %w", err)
	}

	var file eventsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse events file: %w", err)
	}
	if len(file.Events) == 0 {
		return fmt.Errorf("events file contains no events")
	}

	logger, flush, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer flush()

	reasoner, err := buildReasoner(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize reasoner: %w", err)
	}
	defer reasoner.Close(context.Background())

	events := make([]types.Event, len(file.Events))
	for i, e := range file.Events {
		events[i] = types.Event{
			ID:          types.EventID(e.ID),
			Description: e.Description,
			Start:       e.Start,
			End:         e.End,
		}
	}

	result, err := reasoner.ReasonAboutEvents(context.Background(), events)
	if err != nil {
		return fmt.Errorf("reasoning failed: %w", err)
	}

	bold := color.New(color.Bold).SprintFunc()
	fmt.Printf("%s %d events, %d constraints, %d inferences\n",
		bold("Reasoned:"), result.EventsIdentified, result.ConstraintsAdded, result.InferencesMade)

	constraints := reasoner.Constraints()
	printConstraintTable(constraints)

	inconsistencies := reasoner.Inconsistencies()
	if len(inconsistencies) > 0 {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Println(red(fmt.Sprintf("\n%d inconsistencies detected:", len(inconsistencies))))
		for _, inc := range inconsistencies {
			fmt.Println(red("  - " + inc.Explanation))
		}
	} else {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Println(green("\nNetwork is consistent"))
	}

	var ordered []string
	if len(reasonOrder) > 0 {
		ids := make([]types.EventID, len(reasonOrder))
		for i, id := range reasonOrder {
			ids[i] = types.EventID(id)
		}
		for _, id := range reasoner.OrderEvents(ids) {
			ordered = append(ordered, string(id))
		}
		fmt.Printf("\n%s %s\n", bold("Order:"), strings.Join(ordered, " -> "))
	}

	if reasonOutput != "" {
		if err := writeReport(reasonOutput, result, constraints, inconsistencies, ordered); err != nil {
			return err
		}
		fmt.Println("Report written to", reasonOutput)
	}
	return nil
}

func printConstraintTable(constraints []network.Constraint) {
	if len(constraints) == 0 {
		fmt.Println("No constraints derived")
		return
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"Event 1", "Relation", "Event 2", "Confidence", "Provenance"})
	for _, c := range constraints {
		table.Append([]string{
			string(c.Event1),
			c.Relation.String(),
			string(c.Event2),
			fmt.Sprintf("%.2f", c.Confidence),
			string(c.Provenance),
		})
	}
	table.Render()
}

func writeReport(path string, result *types.ReasoningResult, constraints []network.Constraint, inconsistencies []network.Inconsistency, ordered []string) error {
	report := reasonReport{
		Result: resultReport{
			EventsIdentified:     result.EventsIdentified,
			ConstraintsAdded:     result.ConstraintsAdded,
			InferencesMade:       result.InferencesMade,
			InconsistenciesFound: result.InconsistenciesFound,
		},
		Order: ordered,
	}
	for _, c := range constraints {
		report.Constraints = append(report.Constraints, constraintReport{
			Event1:     string(c.Event1),
			Event2:     string(c.Event2),
			Relation:   c.Relation.String(),
			Confidence: c.Confidence,
			Provenance: string(c.Provenance),
		})
	}
	for _, inc := range inconsistencies {
		report.Inconsistencies = append(report.Inconsistencies, inc.Explanation)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
