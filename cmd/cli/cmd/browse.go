package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heap-browser/internal/browser"
	"github.com/heap-browser/internal/webui"
)

var (
	// Browse command flags
	browseDataDir  string
	browseProperty string
	browseClass    string
	browseSort     string
	browseOrder    string
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse <snapshot> [object-id]",
	Short: "Browse a snapshot from the command line",
	Long: `Browse the object graph of a snapshot without starting a server.

With only a snapshot name the command prints the snapshot summary. With an
object ID it prints the requested property of that object: its fields, its
array items, or the objects referencing it. With --class it prints the
merged view across all instances of a class.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVarP(&browseDataDir, "data-dir", "d", "./snapshots", "Directory containing snapshot files")
	browseCmd.Flags().StringVar(&browseProperty, "property", "fields", "Property to browse: fields, references, items")
	browseCmd.Flags().StringVar(&browseClass, "class", "", "Print the merged view of a class instead of one object")
	browseCmd.Flags().StringVar(&browseSort, "sort", "", "Sort column: name, type, value, count")
	browseCmd.Flags().StringVar(&browseOrder, "order", "asc", "Sort order: asc, desc")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	conf := GetConfig()
	ctx := context.Background()

	service := webui.NewBrowseService(browseDataDir, conf.Browser, conf.Server.MaxSnapshots, log, nil)
	snapshot := args[0]

	if browseClass != "" {
		return printMergedView(ctx, service, snapshot)
	}
	if len(args) < 2 {
		return printSummary(ctx, service, snapshot)
	}
	return printObjectView(ctx, service, snapshot, args[1])
}

func printSummary(ctx context.Context, service *webui.BrowseService, snapshot string) error {
	summary, err := service.Summary(ctx, snapshot)
	if err != nil {
		return err
	}

	fmt.Printf("Snapshot: %s\n", snapshot)
	fmt.Printf("  Instances: %d\n", summary.InstanceCount)
	fmt.Printf("  Classes:   %d\n", summary.ClassCount)
	fmt.Printf("  Total size: %d bytes\n", summary.TotalSize)
	fmt.Println()
	fmt.Println("Top classes by size:")
	for _, stat := range summary.TopClasses {
		fmt.Printf("  %-50s %8d instances %12d bytes\n", stat.Name, stat.Count, stat.Size)
	}
	return nil
}

func printObjectView(ctx context.Context, service *webui.BrowseService, snapshot, objectID string) error {
	srt := cliSort()

	var nodes []webui.NodeJSON
	var err error
	switch browseProperty {
	case "fields":
		nodes, err = service.ObjectFields(ctx, snapshot, objectID, srt)
	case "references":
		nodes, err = service.ObjectReferences(ctx, snapshot, objectID, srt)
	case "items":
		nodes, err = service.ObjectItems(ctx, snapshot, objectID, srt)
	default:
		return fmt.Errorf("unknown property: %q (valid: fields, references, items)", browseProperty)
	}
	if err != nil {
		return err
	}

	printNodes(nodes)
	return nil
}

func printMergedView(ctx context.Context, service *webui.BrowseService, snapshot string) error {
	srt := cliSort()

	var nodes []webui.NodeJSON
	var err error
	switch browseProperty {
	case "fields":
		nodes, err = service.MergedFields(ctx, snapshot, browseClass, srt)
	case "references":
		nodes, err = service.MergedReferences(ctx, snapshot, browseClass, srt)
	default:
		return fmt.Errorf("merged views support fields and references, not %q", browseProperty)
	}
	if err != nil {
		return err
	}

	printNodes(nodes)
	return nil
}

func printNodes(nodes []webui.NodeJSON) {
	for _, n := range nodes {
		switch {
		case n.Label != "":
			fmt.Printf("  %s\n", n.Label)
		case n.Value != "":
			fmt.Printf("  %-30s %-20s = %s\n", n.Name, n.Type, n.Value)
		case n.Count > 1:
			fmt.Printf("  %-30s %-20s x%d %s\n", n.Name, n.Type, n.Count, n.ObjectID)
		default:
			fmt.Printf("  %-30s %-20s %s\n", n.Name, n.Type, n.ObjectID)
		}
	}
}

func cliSort() browser.Sort {
	s := browser.Sort{Key: browser.SortNone, Order: browser.Ascending}
	switch browseSort {
	case "name":
		s.Key = browser.SortByName
	case "type":
		s.Key = browser.SortByType
	case "value":
		s.Key = browser.SortByValue
	case "count":
		s.Key = browser.SortByCount
	}
	if browseOrder == "desc" {
		s.Order = browser.Descending
	}
	return s
}
