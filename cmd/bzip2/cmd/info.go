/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/blacktop/go-bzip2/internal/colors"
	"github.com/blacktop/go-bzip2/internal/magic"
	"github.com/blacktop/go-bzip2/pkg/bzip2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().Bool("headerless", false, "Input has no leading \"BZ\" signature")
	viper.BindPFlag("info.headerless", infoCmd.Flags().Lookup("headerless"))
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "List the streams and blocks of a .bz2 file",
	Example: heredoc.Doc(`
		# Show block offsets, CRCs and sizes
		❯ bzip2 info file.txt.bz2`),
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		infile := filepath.Clean(args[0])
		headerless := viper.GetBool("info.headerless")
		if !headerless {
			if _, err := magic.IsBZip2(infile); err != nil {
				return err
			}
		}

		f, err := os.Open(infile)
		if err != nil {
			return err
		}
		defer f.Close()

		finfo, err := f.Stat()
		if err != nil {
			return err
		}

		var s *spinner.Spinner
		if isInteractive() {
			s = spinner.New(spinner.CharSets[38], 100*time.Millisecond)
			s.Prefix = colors.Faint().Sprint("   • Reading blocks... ")
			s.Start()
		}
		r := bzip2.NewReader(f, readerOptions(headerless, true)...)
		size, readErr := io.Copy(io.Discard, r)
		stats := r.Stats()
		if s != nil {
			s.Stop()
		}

		fmt.Printf("%s %s\n", colors.Bold().Sprint("File:"), infile)
		fmt.Printf("%s %d (block size %s, %s)\n", colors.Bold().Sprint("Streams:"),
			stats.Streams, stats.BlockSize, humanize.Bytes(uint64(stats.BlockSize.Bytes())))
		fmt.Printf("%s %s -> %s", colors.Bold().Sprint("Size:"),
			humanize.Bytes(uint64(finfo.Size())), humanize.Bytes(uint64(size)))
		if size > 0 {
			fmt.Printf(" (ratio %.3f)", float64(finfo.Size())/float64(size))
		}
		fmt.Println()
		fmt.Printf("%s %#08x\n\n", colors.Bold().Sprint("Stream CRC:"), stats.StreamCRC)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if colors.Enabled() {
			fmt.Fprintln(w, colors.Header().Sprint("BLOCK")+"\t"+colors.Header().Sprint("OFFSET")+"\t"+
				colors.Header().Sprint("CRC")+"\t"+colors.Header().Sprint("SIZE")+"\t"+colors.Header().Sprint("RANDOMISED"))
		} else {
			fmt.Fprintln(w, "BLOCK\tOFFSET\tCRC\tSIZE\tRANDOMISED")
		}
		for _, b := range stats.Blocks {
			randomised := fmt.Sprint(b.Randomised)
			if b.Randomised {
				randomised = colors.Warning().Sprint(randomised)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				b.Index,
				colors.Offset().Sprintf("%d.%d", b.Offset/8, b.Offset%8),
				colors.CRC().Sprintf("%#08x", b.CRC),
				colors.Size().Sprint(humanize.Bytes(uint64(b.Size))),
				randomised,
			)
		}
		w.Flush()

		if readErr != nil {
			fmt.Println()
			return fmt.Errorf("%s: %w", colors.Failed().Sprint("stream is damaged"), readErr)
		}
		return nil
	},
}
