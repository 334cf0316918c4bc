// Command slpextract streams a byte range of a grammar-compressed text.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/alancleary/slp"
)

func main() {
	format := pflag.StringP("format", "f", "mrrepair", "Grammar format: mrrepair, navarro, or bigrepair.")
	begin := pflag.Uint64P("begin", "b", 0, "First byte of the range to extract.")
	end := pflag.Uint64P("end", "e", 0, "One past the last byte of the range; 0 means end of text.")
	output := pflag.StringP("output", "o", "-", "Output file, or - for stdout.")
	configPath := pflag.StringP("config", "c", "", "YAML config file supplying defaults for the flags above.")
	verbose := pflag.BoolP("verbose", "v", false, "Enable debug logging.")
	help := pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: slpextract [options] GRAMMAR\n")
		fmt.Fprintf(os.Stderr, "       slpextract [options] -f navarro|bigrepair FILE.C FILE.R\n\n")
		fmt.Fprintf(os.Stderr, "Stream a byte range of a grammar-compressed text.\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		return
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *configPath != "" {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			log.Fatal("Cannot read config", "error", err)
		}
		cfg.apply(format, begin, end, output)
	}

	g, err := loadGrammar(*format, pflag.Args())
	if err != nil {
		log.Fatal("Cannot load grammar", "error", err)
	}
	if *end == 0 {
		*end = g.TextLength()
	}

	out := os.Stdout
	if *output != "-" {
		out, err = os.Create(*output)
		if err != nil {
			log.Fatal("Cannot create output file", "error", err)
		}
	}
	w := bufio.NewWriter(out)
	if err := g.Extract(w, *begin, *end); err != nil {
		log.Fatal("Extraction failed", "error", err)
	}
	if err := w.Flush(); err != nil {
		log.Fatal("Cannot flush output", "error", err)
	}
	if out != os.Stdout {
		if err := out.Close(); err != nil {
			log.Fatal("Cannot close output file", "error", err)
		}
	}
}

func loadGrammar(format string, args []string) (*slp.Grammar, error) {
	switch format {
	case "mrrepair":
		if len(args) != 1 {
			return nil, fmt.Errorf("format mrrepair takes one grammar file, got %d arguments", len(args))
		}
		return slp.LoadMRRepair(args[0])
	case "navarro":
		if len(args) != 2 {
			return nil, fmt.Errorf("format navarro takes the .C and .R files, got %d arguments", len(args))
		}
		return slp.LoadNavarro(args[0], args[1])
	case "bigrepair":
		if len(args) != 2 {
			return nil, fmt.Errorf("format bigrepair takes the .C and .R files, got %d arguments", len(args))
		}
		return slp.LoadBigRepair(args[0], args[1])
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
