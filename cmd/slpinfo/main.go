// Command slpinfo prints the dimensions of a grammar-compressed text.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/alancleary/slp"
)

func main() {
	format := pflag.StringP("format", "f", "mrrepair", "Grammar format: mrrepair, navarro, or bigrepair.")
	verbose := pflag.BoolP("verbose", "v", false, "Enable debug logging.")
	help := pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: slpinfo [options] GRAMMAR\n")
		fmt.Fprintf(os.Stderr, "       slpinfo [options] -f navarro|bigrepair FILE.C FILE.R\n\n")
		fmt.Fprintf(os.Stderr, "Print the dimensions of a grammar-compressed text.\n\n")
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

	g, err := loadGrammar(*format, pflag.Args())
	if err != nil {
		log.Fatal("Cannot load grammar", "error", err)
	}
	fmt.Printf("text length: %d\n", g.TextLength())
	fmt.Printf("rules: %d\n", g.NumRules())
	fmt.Printf("start rule size: %d\n", g.StartSize())
	fmt.Printf("depth: %d\n", g.Depth())
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
