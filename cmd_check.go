package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/4O4-Not-F0und/key-relay/manager"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the config and print the credential pool",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	appConfig, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config failed: %w", err)
	}

	m, err := newManager(appConfig.Credentials)
	if err != nil {
		return err
	}

	return printPool(cmd.OutOrStdout(), m.Stats())
}

func printPool(out io.Writer, st manager.Stats) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tWEIGHT\tSHARE\tKEY")
	fmt.Fprintln(w, "-\t----\t------\t-----\t---")
	for i, k := range st.Keys {
		fmt.Fprintf(w, "%d\t%s\t%g\t%.1f%%\t%s\n", i+1, k.Name, k.Weight, k.Share*100, k.Preview)
	}
	fmt.Fprintf(w, "\n%d keys, total weight %g, default strategy %s\n",
		st.TotalKeys, st.TotalWeight, st.DefaultStrategy)
	return w.Flush()
}
