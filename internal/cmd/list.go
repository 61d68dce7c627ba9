package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/chartdeck/internal/bounds"
	"github.com/MeKo-Tech/chartdeck/internal/catalog"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List charts in the charts directory",
	Long:  `List discovers every MBTiles chart in the charts directory and prints its metadata and bounds classification.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	chartsDir := viper.GetString("charts-dir")

	cat := catalog.NewDirCatalog(catalog.DirConfig{Dir: chartsDir}, logger)
	charts, err := cat.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list charts: %w", err)
	}

	if len(charts) == 0 {
		fmt.Printf("No charts found in %s\n", chartsDir)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFORMAT\tZOOM\tBOUNDS\tCASE")

	for _, chart := range charts {
		zoom := "-"
		if chart.MinZoom != nil && chart.MaxZoom != nil {
			zoom = fmt.Sprintf("%d-%d", *chart.MinZoom, *chart.MaxZoom)
		}

		boundsStr := "-"
		caseStr := "-"
		if chart.Bounds != nil {
			boundsStr = *chart.Bounds
			if raw, ok := bounds.Parse(*chart.Bounds); ok {
				caseStr = bounds.Analyze(raw).Case.String()
			} else {
				caseStr = "unparseable"
			}
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			chart.ID, chart.Name, chart.Format, zoom, boundsStr, caseStr)
	}

	return w.Flush()
}
