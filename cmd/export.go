package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/etherxppt/deckd/internal/deck"
	"github.com/etherxppt/deckd/internal/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <deck.json>",
	Short: "Export a saved presentation to another format",
	Long: `Reads a presentation JSON file (as produced by the JSON export or the
/api/decks endpoints) and writes it out as png, jpeg, rtf, json, or one of
the delegated document formats.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		var doc struct {
			Slides []deck.Slide `json:"slides"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}
		if len(doc.Slides) == 0 {
			return fmt.Errorf("%s contains no slides", args[0])
		}

		log, err := newLogger("warn")
		if err != nil {
			return err
		}
		defer log.Sync()

		if err := os.MkdirAll(exportOut, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}

		basename := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		bar := progressbar.Default(int64(len(doc.Slides)), "exporting")

		paths, err := export.Export(doc.Slides, exportFormat, basename, export.Options{
			Dir: exportOut,
			Log: log,
			Progress: func(done, total int) {
				bar.Set(done)
			},
		})
		if err != nil {
			return err
		}
		bar.Finish()

		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "png", "output format: pptx, pdf, odp, docx, rtf, mp4, png, jpeg, json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "output directory")
	rootCmd.AddCommand(exportCmd)
}
