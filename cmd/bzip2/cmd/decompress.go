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
	rootCmd.AddCommand(decompressCmd)
	decompressCmd.Flags().Bool("headerless", false, "Input has no leading \"BZ\" signature")
	decompressCmd.Flags().Bool("multi", true, "Decode concatenated streams")
	viper.BindPFlag("decompress.headerless", decompressCmd.Flags().Lookup("headerless"))
	viper.BindPFlag("decompress.multi", decompressCmd.Flags().Lookup("multi"))
	addFileFlags(decompressCmd, "decompress")
}

func readerOptions(headerless, multi bool) []bzip2.ReaderOption {
	var opts []bzip2.ReaderOption
	if headerless {
		opts = append(opts, bzip2.Headerless())
	}
	if multi {
		opts = append(opts, bzip2.MultiStream())
	}
	return opts
}

func decompressStream(opts ...bzip2.ReaderOption) streamFunc {
	return func(in io.Reader, out io.Writer) (int, error) {
		r := bzip2.NewReader(in, opts...)
		if _, err := io.Copy(out, r); err != nil {
			return 0, err
		}
		return len(r.Stats().Blocks), nil
	}
}

// decompressCmd represents the decompress command
var decompressCmd = &cobra.Command{
	Use:     "decompress [FILE...]",
	Aliases: []string{"d", "x"},
	Short:   "Decompress .bz2 files",
	Example: heredoc.Doc(`
		# Decompress file.txt.bz2 to file.txt (removing file.txt.bz2)
		❯ bzip2 decompress file.txt.bz2

		# Decompress to a different file and keep the input
		❯ bzip2 decompress -k -o out.tar archive.tbz2

		# Decompress stdin to stdout
		❯ cat file.txt.bz2 | bzip2 decompress | less`),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fn := decompressStream(readerOptions(
			viper.GetBool("decompress.headerless"),
			viper.GetBool("decompress.multi"),
		)...)

		output := viper.GetString("decompress.output")
		if len(args) == 0 || viper.GetBool("decompress.stdout") || output == "-" || (len(args) == 1 && args[0] == "-") {
			return runStream(args, os.Stdout, fn)
		}
		if output != "" && len(args) > 1 {
			return fmt.Errorf("--output can only be used with a single input file")
		}

		outputName := decompressedName
		if output != "" {
			outputName = func(string) string { return output }
		}
		return runFiles(args, outputName, fileOptions{
			keep:         viper.GetBool("decompress.keep"),
			force:        viper.GetBool("decompress.force"),
			showProgress: viper.GetBool("decompress.progress"),
		}, viper.GetInt("decompress.jobs"), "Decompressed", fn)
	},
}
