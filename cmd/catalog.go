package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pathwell/labscan/pkg/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and list the test catalog",
	Long: `Load the test catalog (the built-in one, or the file given with
--catalog), validate it, and print every entry with its aliases, unit,
and default reference range.`,
	RunE: runCatalog,
}

var catalogFile string

func init() {
	RootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringVar(&catalogFile, "catalog", os.Getenv("LABSCAN_CATALOG"), "Path to a test-catalog YAML file (built-in catalog if empty)")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(catalogFile)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tALIASES\tUNIT\tRANGE")
	for _, entry := range cat.Entries() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			entry.Name,
			strings.Join(entry.Aliases, ", "),
			entry.Unit,
			describeRange(entry),
		)
	}
	return w.Flush()
}

func describeRange(entry catalog.Entry) string {
	if entry.Qualitative {
		return "qualitative (normal: " + strings.Join(entry.Negative, "/") + ")"
	}
	low, high := entry.DefaultRange()
	switch {
	case low != nil && high != nil:
		return low.String() + " - " + high.String()
	case high != nil:
		return "< " + high.String()
	case low != nil:
		return "> " + low.String()
	default:
		return "-"
	}
}
