package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/cdl"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/content"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/layout"
)

var (
	outputJSON bool
)

// ContainerInfo is the structured form of a resolved container
type ContainerInfo struct {
	Name        string      `json:"name"`
	Telecommand bool        `json:"telecommand"`
	TotalBits   int         `json:"total_bits"`
	Entries     []EntryInfo `json:"entries"`
}

// EntryInfo is one drawable entry
type EntryInfo struct {
	Container string `json:"container"`
	Name      string `json:"name"`
	Aliases   string `json:"aliases,omitempty"`
	StartBit  int    `json:"start_bit"`
	Size      int    `json:"size_in_bits"`
	Value     string `json:"value,omitempty"`
}

var infoCmd = &cobra.Command{
	Use:   "info <model> [name]",
	Short: "List containers or show the resolved content of one",
	Long: `Without a name, list every container and telecommand in the model.
With a name, print the resolved content rows and the entries that would be
drawn.

Examples:
  xtceview info testdata/ccsds.cdl
  xtceview info testdata/ccsds.cdl Housekeeping
  xtceview info --json testdata/ccsds.cdl Set_Heater`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&outputJSON, "json", false,
		"output as JSON (for programmatic access)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 {
		return listBlocks(cat)
	}

	model, err := cat.Resolve(args[1])
	if err != nil {
		return err
	}
	entries := layout.Normalize(model, cfg.Aliases)

	if outputJSON {
		out := ContainerInfo{
			Name:        model.Name,
			Telecommand: model.Telecommand,
			TotalBits:   model.TotalBits(),
			Entries:     make([]EntryInfo, 0, len(entries)),
		}
		for _, e := range entries {
			out.Entries = append(out.Entries, EntryInfo{
				Container: e.ContainerName,
				Name:      e.ItemName,
				Aliases:   e.ItemAliases,
				StartBit:  e.StartBit,
				Size:      e.SizeInBits,
				Value:     e.Value,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	kind := "container"
	if model.Telecommand {
		kind = "telecommand"
	}
	fmt.Printf("%s (%s), %d bits\n\n", model.Name, kind, model.TotalBits())

	fmt.Println("Resolved content:")
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  KIND\tNAME\tHOLDER\tSTART\tSIZE\tIN USE\tVALUE\tALIASES")
	for _, e := range model.Entries {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%v\t%s\t%s\n",
			e.Kind, e.Name, e.Holder, e.RawStartBit, e.RawSizeInBits, e.InUse, e.Value,
			content.FormatAliases(e.Aliases, content.AliasPreferences{ShowAllNamespaces: true, ShowNamespaceNames: true}))
	}
	tw.Flush()

	fmt.Printf("\nDrawable entries: %d\n", len(entries))
	tw = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "  %4d..%-4d\t%s\t%s\n", e.StartBit, e.EndBit()-1, e.ContainerName, e.Label())
	}
	tw.Flush()
	if len(entries) > layout.MaxEntries {
		fmt.Printf("\nWarning: more than %d entries, the diagram shows a placeholder\n", layout.MaxEntries)
	}
	return nil
}

func listBlocks(cat *cdl.Catalog) error {
	names := cat.Names()
	if outputJSON {
		out := make([]ContainerInfo, 0, len(names))
		for _, name := range names {
			b, _ := cat.Block(name)
			out = append(out, ContainerInfo{Name: name, Telecommand: b.IsTelecommand()})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Found %d container(s) and telecommand(s)\n", len(names))
	fmt.Println(strings.Repeat("=", 40))
	for _, name := range names {
		b, _ := cat.Block(name)
		kind := "container"
		if b.IsTelecommand() {
			kind = "telecommand"
		}
		fmt.Printf("  %-32s %s\n", name, kind)
	}
	return nil
}
