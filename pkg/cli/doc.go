/*
Package cli provides command-line helpers for the imagetoken command.

Output Formatting:

Results are printed as aligned text, JSON, or CSV. Types that implement Table
get columns in text and CSV output:

	formatter := cli.NewFormatter(cli.FormatCSV)
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

Progress Reporting:

Batch runs report progress on stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(items)))
	progress.Update(1)
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
