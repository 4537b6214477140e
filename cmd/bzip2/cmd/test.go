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
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/go-bzip2/internal/batch"
	"github.com/blacktop/go-bzip2/internal/colors"
	"github.com/blacktop/go-bzip2/internal/magic"
	"github.com/caarlos0/ctrlc"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.Flags().Bool("headerless", false, "Input has no leading \"BZ\" signature")
	testCmd.Flags().Bool("multi", true, "Decode concatenated streams")
	testCmd.Flags().IntP("jobs", "j", 0, "Number of files to test in parallel (default: number of CPUs)")
	viper.BindPFlag("test.headerless", testCmd.Flags().Lookup("headerless"))
	viper.BindPFlag("test.multi", testCmd.Flags().Lookup("multi"))
	viper.BindPFlag("test.jobs", testCmd.Flags().Lookup("jobs"))
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:     "test FILE...",
	Aliases: []string{"t"},
	Short:   "Check the integrity of .bz2 files",
	Example: heredoc.Doc(`
		# Verify every block and stream CRC of the given files
		❯ bzip2 test *.bz2`),
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		headerless := viper.GetBool("test.headerless")
		fn := decompressStream(readerOptions(headerless, viper.GetBool("test.multi"))...)

		var jobs []batch.Job
		for _, arg := range args {
			jobs = append(jobs, batch.Job{Input: filepath.Clean(arg)})
		}

		var failed int
		report := func(r batch.Result) error {
			if r.Err != nil {
				failed++
				fmt.Printf("%s: %s %v\n", r.Job.Input, colors.Failed().Sprint("FAILED"), r.Err)
				return nil
			}
			fmt.Printf("%s: %s %s\n", r.Job.Input, colors.OK().Sprint("OK"),
				colors.Faint().Sprintf("(%d blocks, %s)", r.Blocks, humanize.Bytes(uint64(r.OutSize))))
			return nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := ctrlc.Default.Run(ctx, func() error {
			return batch.Run(ctx, jobs, viper.GetInt("test.jobs"), func(ctx context.Context, job batch.Job) batch.Result {
				if !headerless {
					if _, err := magic.IsBZip2(job.Input); err != nil {
						return batch.Result{Err: err}
					}
				}
				return processFile(ctx, job, fileOptions{keep: true}, fn)
			}, report)
		}); err != nil {
			if errors.As(err, &ctrlc.ErrorCtrlC{}) {
				log.Warn("Exiting...")
				return nil
			}
			return err
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files failed the integrity check", failed, len(args))
		}
		return nil
	},
}
