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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/blacktop/go-bzip2/pkg/bzip2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(compressCmd)
	compressCmd.Flags().StringP("level", "l", bzip2.Default.String(), "Block size (1-9, fast or best)")
	compressCmd.RegisterFlagCompletionFunc("level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return bzip2.BlockSizes(), cobra.ShellCompDirectiveNoFileComp
	})
	viper.BindPFlag("compress.level", compressCmd.Flags().Lookup("level"))
	addFileFlags(compressCmd, "compress")
}

func compressStream(level bzip2.BlockSize) streamFunc {
	return func(in io.Reader, out io.Writer) (int, error) {
		w, err := bzip2.NewWriter(out, bzip2.WithBlockSize(level))
		if err != nil {
			return 0, err
		}
		if _, err := io.Copy(w, in); err != nil {
			return 0, err
		}
		if err := w.Close(); err != nil {
			return 0, err
		}
		return len(w.Stats().Blocks), nil
	}
}

// compressCmd represents the compress command
var compressCmd = &cobra.Command{
	Use:     "compress [FILE...]",
	Aliases: []string{"c", "z"},
	Short:   "Compress files to .bz2",
	Example: heredoc.Doc(`
		# Compress a file to file.txt.bz2 (removing file.txt)
		❯ bzip2 compress file.txt

		# Compress several files in parallel with the smallest block size and keep the inputs
		❯ bzip2 compress -k -l fast -j 4 *.log

		# Compress stdin to stdout
		❯ cat file.txt | bzip2 compress > file.txt.bz2`),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := bzip2.LookupBlockSize(viper.GetString("compress.level"))
		if err != nil {
			return err
		}
		fn := compressStream(level)

		output := viper.GetString("compress.output")
		if len(args) == 0 || viper.GetBool("compress.stdout") || output == "-" || (len(args) == 1 && args[0] == "-") {
			if err := refuseTerminal(viper.GetBool("compress.force")); err != nil {
				return err
			}
			return runStream(args, os.Stdout, fn)
		}
		if output != "" && len(args) > 1 {
			return fmt.Errorf("--output can only be used with a single input file")
		}

		outputName := compressedName
		if output != "" {
			outputName = func(string) string { return output }
		}
		return runFiles(args, outputName, fileOptions{
			keep:         viper.GetBool("compress.keep"),
			force:        viper.GetBool("compress.force"),
			showProgress: viper.GetBool("compress.progress"),
		}, viper.GetInt("compress.jobs"), "Compressed", fn)
	},
}
