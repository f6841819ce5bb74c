package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/isingviz/internal/config"
)

func listRuns(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.log.Sync()

	runs, err := e.store.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMMAND\tTIME\tBETA\tLATTICE\tSEED\tOUTPUTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%dx%d\t%d\t%s\n",
			run.ID,
			run.Command,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Beta,
			run.TimeLen,
			run.SpaceLen,
			run.Seed,
			strings.Join(run.Outputs, ","),
		)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBETA\tJ\tLATTICE\tSWEEPS\tCOUNT")
	for _, name := range config.ListPresets() {
		l := config.Presets[name]
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%dx%d\t%d\t%d\n", name, l.Beta, l.J, l.TimeLen, l.SpaceLen, l.Sweeps, l.Count)
	}
	return w.Flush()
}
