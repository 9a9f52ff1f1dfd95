package cli

import (
	"flag"
	"io"

	"semant/internal/core/config"
)

const defaultConfigPath = config.DefaultFile

type cliOptions struct {
	configPath string
	once       bool
	watch      bool
	ui         bool
	format     string
	output     string
	history    int
	historyTSV bool
	verbose    bool
	version    bool
	args       []string
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("semant", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.BoolVar(&opts.once, "once", false, "Run a single analysis and exit (default unless -watch or -ui)")
	fs.BoolVar(&opts.watch, "watch", false, "Re-run the analysis whenever an input document changes")
	fs.BoolVar(&opts.ui, "ui", false, "Enable terminal UI mode (implies -watch)")
	fs.StringVar(&opts.format, "format", "", "Report format: text, json, markdown or sarif")
	fs.StringVar(&opts.output, "o", "", "Write the report to this path instead of stdout")
	fs.IntVar(&opts.history, "history", 0, "Print the last N recorded runs and exit")
	fs.BoolVar(&opts.historyTSV, "history-tsv", false, "Print -history as TSV instead of JSON")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
