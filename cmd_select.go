package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/4O4-Not-F0und/key-relay/manager"
	"github.com/4O4-Not-F0und/key-relay/selector"
	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Dry-run selections against the configured pool",
	Long: `select builds the credential manager from the config and performs
--count selections, printing how often each key was chosen. Use it to check
that a weight split behaves as intended before rolling it out.`,
	Args: cobra.NoArgs,
	RunE: runSelect,
}

var (
	selectCount    int
	selectStrategy string
	selectSeed     uint64
)

func init() {
	selectCmd.Flags().IntVarP(&selectCount, "count", "n", 1000, "number of selections")
	selectCmd.Flags().StringVarP(&selectStrategy, "strategy", "s", "", "round_robin or weighted (default: configured strategy)")
	selectCmd.Flags().Uint64Var(&selectSeed, "seed", 0, "seed for a reproducible weighted run (0: random)")
	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	if selectCount <= 0 {
		return fmt.Errorf("count must be positive")
	}

	appConfig, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config failed: %w", err)
	}

	counter := &selectionCounter{counts: map[int]int{}}
	opts := []manager.Option{manager.WithObserver(counter)}
	if selectSeed != 0 {
		opts = append(opts, manager.WithSource(selector.NewLockedSource(selectSeed, selectSeed)))
	}
	m, err := newManager(appConfig.Credentials, opts...)
	if err != nil {
		return err
	}

	strategy, err := simulate(m, selectStrategy, selectCount)
	if err != nil {
		return err
	}
	return printCounts(cmd.OutOrStdout(), m, strategy, counter.counts, selectCount)
}

// selectionCounter counts selections per pool position. Not safe for
// concurrent use; simulate selects sequentially.
type selectionCounter struct {
	counts map[int]int
}

func (sc *selectionCounter) OnSelect(e manager.Event) {
	sc.counts[e.Index]++
}

// simulate runs n selections and returns the strategy they used.
func simulate(m *manager.Manager, name string, n int) (strategy selector.Strategy, err error) {
	strategy = m.DefaultStrategy()
	if name != "" {
		strategy, err = selector.ParseStrategy(name)
		if err != nil {
			return
		}
	}

	for i := 0; i < n; i++ {
		if _, err = m.Select(strategy); err != nil {
			return
		}
	}
	return
}

func printCounts(out io.Writer, m *manager.Manager, strategy selector.Strategy, counts map[int]int, n int) error {
	st := m.Stats()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%d selections, strategy %s\n\n", n, strategy)
	fmt.Fprintln(w, "NAME\tWEIGHT\tEXPECTED\tSELECTED\tOBSERVED")
	fmt.Fprintln(w, "----\t------\t--------\t--------\t--------")
	for i, k := range st.Keys {
		expected := k.Share
		if strategy == selector.RoundRobin {
			expected = 1 / float64(st.TotalKeys)
		}
		fmt.Fprintf(w, "%s\t%g\t%.1f%%\t%d\t%.1f%%\n",
			k.Name, k.Weight, expected*100, counts[i], float64(counts[i])/float64(n)*100)
	}
	return w.Flush()
}
