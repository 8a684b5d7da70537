package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/mediarr/sensor"
)

var (
	fetchJSON     bool
	fetchDetails  bool
	fetchOverview bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [sensor...]",
	Short: "Run one cycle of the given sensors and print the result",
	Long:  `Run one fetch, normalize, filter and truncate cycle for each named sensor (all sensors when none are given) and print the lists.`,
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print sensor state as JSON")
	fetchCmd.Flags().BoolVar(&fetchDetails, "details", false, "show ids, media type and dates")
	fetchCmd.Flags().BoolVar(&fetchOverview, "overview", false, "show overviews")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := buildApp(ctx, cfg, appOptions{only: args})
	if err != nil {
		return err
	}
	defer a.Close()

	failed := a.scheduler.UpdateAll(ctx)

	sensors := a.scheduler.Sensors()
	if fetchJSON {
		states := make([]sensor.State, 0, len(sensors))
		for _, s := range sensors {
			states = append(states, s.State())
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(states); err != nil {
			return err
		}
	} else {
		formatter := sensor.NewConsoleFormatter()
		opts := sensor.FormatOptions{ShowDetails: fetchDetails, ShowOverview: fetchOverview}
		for _, s := range sensors {
			fmt.Print(formatter.FormatState(s.Status(), s.Items(), opts))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sensors failed", failed, len(sensors))
	}
	return nil
}
