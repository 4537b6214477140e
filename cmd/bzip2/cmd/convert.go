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
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/blacktop/go-bzip2/internal/magic"
	"github.com/blacktop/go-bzip2/pkg/bzip2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ulikunitz/xz"
)

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("level", "l", bzip2.Default.String(), "Block size (1-9, fast or best)")
	convertCmd.RegisterFlagCompletionFunc("level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return bzip2.BlockSizes(), cobra.ShellCompDirectiveNoFileComp
	})
	viper.BindPFlag("convert.level", convertCmd.Flags().Lookup("level"))
	addFileFlags(convertCmd, "convert")
}

// convertedName returns the .bz2 name for an .xz input.
func convertedName(input string) string {
	switch {
	case strings.HasSuffix(input, ".txz"):
		return strings.TrimSuffix(input, ".txz") + ".tbz2"
	case strings.HasSuffix(input, ".xz"):
		return strings.TrimSuffix(input, ".xz") + ".bz2"
	default:
		return input + ".bz2"
	}
}

func convertStream(level bzip2.BlockSize) streamFunc {
	compress := compressStream(level)
	return func(in io.Reader, out io.Writer) (int, error) {
		xr, err := xz.NewReader(in)
		if err != nil {
			return 0, err
		}
		return compress(xr, out)
	}
}

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert FILE.xz...",
	Short: "Recompress .xz files as .bz2",
	Example: heredoc.Doc(`
		# Convert archive.tar.xz to archive.tar.bz2 (keeping the .xz file)
		❯ bzip2 convert -k archive.tar.xz`),
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := bzip2.LookupBlockSize(viper.GetString("convert.level"))
		if err != nil {
			return err
		}
		for _, arg := range args {
			if _, err := magic.IsXZ(filepath.Clean(arg)); err != nil {
				return fmt.Errorf("%s: %w", arg, err)
			}
		}
		fn := convertStream(level)

		output := viper.GetString("convert.output")
		if viper.GetBool("convert.stdout") || output == "-" {
			if err := refuseTerminal(viper.GetBool("convert.force")); err != nil {
				return err
			}
			return runStream(args, os.Stdout, fn)
		}
		if output != "" && len(args) > 1 {
			return fmt.Errorf("--output can only be used with a single input file")
		}

		outputName := convertedName
		if output != "" {
			outputName = func(string) string { return output }
		}
		return runFiles(args, outputName, fileOptions{
			keep:         viper.GetBool("convert.keep"),
			force:        viper.GetBool("convert.force"),
			showProgress: viper.GetBool("convert.progress"),
		}, viper.GetInt("convert.jobs"), "Converted", fn)
	},
}
