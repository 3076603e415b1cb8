package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacybrock/reMarkable-remtool/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show PATH",
	Short: "Show a document's metadata",
	Long: `Print the full metadata record for one document: identifier, name,
file type, modification time, and how many pages carry annotations.

Example:

  remtool show Papers/essay`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		info, err := app.op.Show(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n\n", ui.RenderAccent("document"), info.Path)
		printField("id", info.ID)
		printField("name", info.Name)
		printField("parent", orRoot(info.ParentID))
		printField("fileType", orDash(info.FileType))
		printField("lastModified", info.LastModified.Format("2006-01-02 15:04:05"))
		printField("annotated pages", fmt.Sprintf("%d", info.Layers))
		printField("pinned", fmt.Sprintf("%t", info.Pinned))
		printField("version", fmt.Sprintf("%d", info.Version))
		return nil
	},
}

func printField(name, value string) {
	fmt.Printf("%-16s: %s\n", name, value)
}

func orRoot(id string) string {
	if id == "" {
		return "(root)"
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(showCmd)
}
