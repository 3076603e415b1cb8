package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacybrock/reMarkable-remtool/internal/tree"
	"github.com/stacybrock/reMarkable-remtool/internal/ui"
)

var lsLong bool

var lsCmd = &cobra.Command{
	Use:   "ls [PATH]",
	Short: "List a folder in the tablet's library",
	Long: `List the contents of a library folder, folders first.

With no PATH, lists the library root. Paths use forward slashes and are
case-sensitive, e.g.:

  remtool ls
  remtool ls Papers/drafts`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}

		app, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		entries, err := app.op.List(path)
		if err != nil {
			return err
		}

		for _, e := range entries {
			name := e.Name
			if e.Type == tree.TypeFolder {
				name = ui.RenderFolder(name + "/")
			}
			if lsLong {
				fmt.Printf("%s  %s\n", ui.RenderDim(e.ID), name)
			} else {
				fmt.Println(name)
			}
		}
		return nil
	},
}

func init() {
	lsCmd.Flags().BoolVarP(&lsLong, "long", "l", false, "include document ids")
	rootCmd.AddCommand(lsCmd)
}
