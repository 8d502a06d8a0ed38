package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/statewise/flume"
)

// Step is one entry of a demo scenario. Steps are decoded loosely from YAML
// so scenarios stay forgiving about extra keys.
type Step struct {
	Action string        `mapstructure:"action"` // add | set | fail | wait
	Amount int           `mapstructure:"amount"`
	Value  int           `mapstructure:"value"`
	Async  bool          `mapstructure:"async"`
	Delay  time.Duration `mapstructure:"delay"`
}

// Scenario is a scripted sequence of dispatches against a counter store.
type Scenario struct {
	Initial int
	Steps   []Step
}

type rawScenario struct {
	Initial int              `yaml:"initial"`
	Steps   []map[string]any `yaml:"steps"`
}

// LoadScenario reads a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var raw rawScenario
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	sc := &Scenario{Initial: raw.Initial}
	for i, entry := range raw.Steps {
		var step Step
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:     &step,
			DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(entry); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		sc.Steps = append(sc.Steps, step)
	}
	return sc, nil
}

// DefaultScenario is used when no scenario file is given. It walks through
// sync dispatches, a failing reduction, and the async last-commit-wins race.
func DefaultScenario() *Scenario {
	return &Scenario{
		Initial: 0,
		Steps: []Step{
			{Action: "add", Amount: 1},
			{Action: "add", Amount: 2},
			{Action: "fail"},
			{Action: "add", Amount: 1, Async: true, Delay: 50 * time.Millisecond},
			{Action: "add", Amount: 10, Async: true, Delay: 10 * time.Millisecond},
			{Action: "wait"},
		},
	}
}

// ToAction converts a step to a dispatchable action. The "wait" step has no
// action; the caller handles it by draining in-flight async dispatches.
func (st Step) ToAction() (flume.Action[int], error) {
	switch st.Action {
	case "add":
		amount := st.Amount
		if st.Async {
			delay := st.Delay
			return flume.AsyncAction[int]{
				Name: fmt.Sprintf("add(%d)", amount),
				Reduce: func(ctx context.Context, s int) (int, error) {
					select {
					case <-time.After(delay):
						return s + amount, nil
					case <-ctx.Done():
						return s, ctx.Err()
					}
				},
			}, nil
		}
		return flume.SyncAction[int]{
			Name:   fmt.Sprintf("add(%d)", amount),
			Reduce: func(s int) (int, error) { return s + amount, nil },
		}, nil
	case "set":
		value := st.Value
		return flume.SyncAction[int]{
			Name:   fmt.Sprintf("set(%d)", value),
			Reduce: func(int) (int, error) { return value, nil },
		}, nil
	case "fail":
		return flume.SyncAction[int]{
			Name:   "fail",
			Reduce: func(s int) (int, error) { return s, fmt.Errorf("scripted failure") },
		}, nil
	case "wait":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown step action %q", st.Action)
	}
}
