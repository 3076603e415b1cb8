package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stacybrock/reMarkable-remtool/internal/transfer"
	"github.com/stacybrock/reMarkable-remtool/internal/ui"
)

var (
	putForce bool
	putClear bool
)

var putCmd = &cobra.Command{
	Use:   "put FILE... [FOLDER]",
	Short: "Upload files into the tablet's library",
	Long: `Upload one or more PDF or EPUB files into a library folder.

The last argument names the target folder when it is not an existing local
file; otherwise everything goes to the library root. The document's visible
name is the file's base name without extension.

An upload that would shadow an existing document fails unless -f is given.
Overwriting a document that has handwritten annotations additionally
requires --clear, which discards those annotations; replacing page content
underneath existing annotation layers is not supported because the layers
would point at pages that no longer exist.

Examples:

  remtool put essay.pdf
  remtool put essay.pdf Papers
  remtool put -f --clear essay.pdf Papers`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, folder := splitPutArgs(args)
		if len(files) == 0 {
			return fmt.Errorf("no source files given")
		}

		app, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		for _, f := range files {
			res, err := app.op.Put(ctx, transfer.Request{
				SourcePath: f,
				FolderPath: folder,
				Force:      putForce,
				Clear:      putClear,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}

			verb := "sent to"
			if !res.Created {
				verb = "replaced on"
			}
			fmt.Printf("%s %s %s reMarkable %s\n",
				ui.RenderPass("✓"), f, verb, ui.RenderDim("("+res.ID+")"))
		}

		app.op.Finalize(ctx)
		return nil
	},
}

// splitPutArgs separates source files from the optional trailing folder:
// with two or more arguments, a last argument that is not an existing local
// file names the target folder.
func splitPutArgs(args []string) (files []string, folder string) {
	if len(args) >= 2 && !localFileExists(args[len(args)-1]) {
		return args[:len(args)-1], args[len(args)-1]
	}
	return args, ""
}

func localFileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func init() {
	putCmd.Flags().BoolVarP(&putForce, "force", "f", false, "overwrite an existing document with the same name")
	putCmd.Flags().BoolVarP(&putClear, "clear", "c", false, "with -f, discard the existing document's annotations")
	rootCmd.AddCommand(putCmd)
}
