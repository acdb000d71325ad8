// langcheck CLI - runs fuzz campaigns against registered contracts
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/langcheck/langcheck/fuzz"
	"github.com/langcheck/langcheck/manifest"
)

func main() {
	manifestDir := flag.String("manifest", ".", "Directory containing langcheck.toml (searched upward)")
	budget := flag.Int("budget", 0, "Override the fuzz budget from the manifest")
	seed := flag.Int64("seed", -1, "Override the fuzz seed from the manifest")
	verbose := flag.Bool("v", false, "Verbose output")
	listContracts := flag.Bool("list", false, "List registered demo contracts and exit")
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	registry := demoRegistry()

	if *listContracts {
		for _, name := range demoContractNames {
			fmt.Println(name)
		}
		return
	}

	m, err := manifest.FindAndLoad(*manifestDir)
	if err != nil {
		fatal(err)
	}
	if m == nil {
		fatal(fmt.Errorf("no langcheck.toml found from %s upward", *manifestDir))
	}

	c, ok := registry.Contract(m.Campaign.Contract)
	if !ok {
		fatal(fmt.Errorf("unknown contract %q (try -list)", m.Campaign.Contract))
	}

	opts := fuzz.Options{
		Budget:  m.Fuzz.Budget,
		Seed:    m.Fuzz.Seed,
		Timeout: time.Duration(m.Fuzz.TimeoutMS) * time.Millisecond,
	}
	if *budget > 0 {
		opts.Budget = *budget
	}
	if *seed >= 0 {
		opts.Seed = *seed
	}

	report, err := fuzz.Run(c, opts)
	if err != nil {
		fatal(err)
	}

	fmt.Println(report.Summary())
	counts := report.Counts()
	if counts.Failed > 0 || counts.Crashed > 0 {
		for _, trial := range report.Trials {
			if trial.Class == fuzz.PostconditionFailure || trial.Class == fuzz.Crash {
				fmt.Printf("  trial %d [%s]: inputs %s: %s\n",
					trial.Index, trial.Class, strings.Join(trial.Inputs, ", "), trial.Detail)
			}
		}
	}

	if m.Report.Persist {
		store, err := fuzz.NewStore(m.DatabasePath())
		if err != nil {
			fatal(err)
		}
		defer store.Close()
		if err := store.SaveReport(report); err != nil {
			fatal(err)
		}
		fmt.Printf("report %s saved to %s\n", report.RunID, m.DatabasePath())
	}

	if counts.Failed > 0 || counts.Crashed > 0 || report.TotalFailure() {
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "lct: %v\n", err)
	os.Exit(1)
}
