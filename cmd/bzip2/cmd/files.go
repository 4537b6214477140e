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
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/apex/log"
	"github.com/blacktop/go-bzip2/internal/batch"
	"github.com/caarlos0/ctrlc"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// streamFunc transforms in into out and returns the number of bzip2 blocks involved.
type streamFunc func(in io.Reader, out io.Writer) (int, error)

type fileOptions struct {
	keep         bool
	force        bool
	showProgress bool
	progress     *mpb.Progress
}

// addFileFlags registers the flags shared by the commands that turn one file into another.
func addFileFlags(cmd *cobra.Command, prefix string) {
	cmd.Flags().StringP("output", "o", "", "Output file path (single input only, '-' for stdout)")
	cmd.Flags().BoolP("stdout", "c", false, "Write to stdout and keep the input files")
	cmd.Flags().BoolP("keep", "k", false, "Keep (don't delete) input files")
	cmd.Flags().BoolP("force", "f", false, "Overwrite existing output files")
	cmd.Flags().IntP("jobs", "j", 0, "Number of files to process in parallel (default: number of CPUs)")
	cmd.Flags().Bool("progress", false, "Show a progress bar per file")
	cmd.MarkFlagFilename("output")
	for _, name := range []string{"output", "stdout", "keep", "force", "jobs", "progress"} {
		viper.BindPFlag(prefix+"."+name, cmd.Flags().Lookup(name))
	}
}

// compressedName returns the file name compress writes for input.
func compressedName(input string) string {
	return input + ".bz2"
}

// decompressedName returns the file name decompress writes for input.
func decompressedName(input string) string {
	switch ext := filepath.Ext(input); ext {
	case ".tbz", ".tbz2":
		return strings.TrimSuffix(input, ext) + ".tar"
	case ".bz", ".bz2":
		return strings.TrimSuffix(input, ext)
	default:
		log.Warnf("can't guess the decompressed name for %s, using %s.out", input, input)
		return input + ".out"
	}
}

func createOutput(path string, force bool) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("output file %s already exists (use --force to overwrite)", path)
		}
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// confirmOverwrite asks once whether existing outputs may be replaced. It returns
// false without asking when nothing would be overwritten or there is no terminal.
func confirmOverwrite(jobs []batch.Job) bool {
	var existing int
	for _, job := range jobs {
		if job.Output == "" {
			continue
		}
		if _, err := os.Stat(job.Output); err == nil {
			existing++
		}
	}
	if existing == 0 || !isInteractive() {
		return false
	}
	overwrite := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%d output file(s) already exist. Overwrite?", existing),
	}
	if err := survey.AskOne(prompt, &overwrite); err != nil {
		return false
	}
	return overwrite
}

// refuseTerminal fails when compressed data would be written to a terminal.
func refuseTerminal(force bool) error {
	if !force && term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("compressed data not written to a terminal (use --force to override)")
	}
	return nil
}

// contextReader fails reads once ctx is done so a long copy can be interrupted.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// processFile runs fn from job.Input into job.Output. An empty Output discards the
// result. A partial output is removed on failure; the input is removed on success
// unless keep is set.
func processFile(ctx context.Context, job batch.Job, opts fileOptions, fn streamFunc) (res batch.Result) {
	in, err := os.Open(job.Input)
	if err != nil {
		res.Err = err
		return res
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		res.Err = err
		return res
	}
	if !info.Mode().IsRegular() {
		res.Err = fmt.Errorf("%s is not a regular file", job.Input)
		return res
	}
	res.InSize = info.Size()

	var r io.Reader = contextReader{ctx: ctx, r: in}
	if opts.progress != nil {
		bar := opts.progress.New(info.Size(),
			mpb.BarStyle().Lbound("[").Filler("=").Tip(">").Padding("-").Rbound("|"),
			mpb.PrependDecorators(
				decor.Name(filepath.Base(job.Input), decor.WCSyncSpaceR),
				decor.CountersKibiByte("\t% .2f / % .2f"),
			),
			mpb.AppendDecorators(
				decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "✅ "),
				decor.Name(" ] "),
				decor.AverageSpeed(decor.SizeB1024(0), "% .2f", decor.WCSyncWidth),
			),
		)
		defer bar.Abort(false)
		r = bar.ProxyReader(r)
	}

	out := &countingWriter{w: io.Discard}
	if job.Output != "" {
		f, err := createOutput(job.Output, opts.force)
		if err != nil {
			res.Err = err
			return res
		}
		out.w = f
		defer func() {
			if cerr := f.Close(); cerr != nil && res.Err == nil {
				res.Err = cerr
			}
			if res.Err != nil {
				os.Remove(job.Output)
			} else if !opts.keep {
				os.Remove(job.Input)
			}
		}()
	}

	res.Blocks, res.Err = fn(r, out)
	res.OutSize = out.n
	return res
}

// runFiles processes every input with fn, in parallel, and logs one line per file.
func runFiles(inputs []string, outputName func(string) string, opts fileOptions, jobs int, action string, fn streamFunc) error {
	var batchJobs []batch.Job
	for _, input := range inputs {
		job := batch.Job{Input: filepath.Clean(input)}
		if outputName != nil {
			job.Output = outputName(job.Input)
		}
		batchJobs = append(batchJobs, job)
	}
	if !opts.force && confirmOverwrite(batchJobs) {
		opts.force = true
	}

	if opts.showProgress {
		opts.progress = mpb.New(
			mpb.WithWidth(60),
			mpb.WithRefreshRate(180*time.Millisecond),
		)
	}

	var failed int
	report := func(r batch.Result) error {
		if r.Err != nil {
			failed++
			log.WithError(r.Err).Errorf("%s failed", r.Job.Input)
			return nil
		}
		fields := log.Fields{
			"input":  r.Job.Input,
			"blocks": r.Blocks,
			"in":     humanize.Bytes(uint64(r.InSize)),
			"out":    humanize.Bytes(uint64(r.OutSize)),
		}
		if r.Job.Output != "" {
			fields["output"] = r.Job.Output
		}
		if r.InSize > 0 {
			fields["ratio"] = fmt.Sprintf("%.3f", float64(r.OutSize)/float64(r.InSize))
		}
		log.WithFields(fields).Info(action)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err := ctrlc.Default.Run(ctx, func() error {
		return batch.Run(ctx, batchJobs, jobs, func(ctx context.Context, job batch.Job) batch.Result {
			return processFile(ctx, job, opts, fn)
		}, report)
	})
	cancel()
	if opts.progress != nil {
		opts.progress.Wait()
	}
	if err != nil {
		if errors.As(err, &ctrlc.ErrorCtrlC{}) {
			log.Warn("Exiting...")
			return nil
		}
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(inputs))
	}
	return nil
}

// runStream pipes the named inputs (stdin when none or "-") through fn to w.
func runStream(inputs []string, w io.Writer, fn streamFunc) error {
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	for _, input := range inputs {
		var r io.Reader = os.Stdin
		if input != "-" {
			f, err := os.Open(filepath.Clean(input))
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		if _, err := fn(r, w); err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
	}
	return nil
}
