// Command stdframe-cli inspects CSV and JSON-lines files through the
// stdframe adapter layer: schema, head, and per-column summary statistics.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/stdframe/stdframe"
)

func customUsage() {
	fmt.Fprintf(os.Stderr, "stdframe CLI\n\n")
	fmt.Fprintf(os.Stderr, "Usage: stdframe-cli [options] <file.csv|file.jsonl>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  --schema\n\t\tPrint the inferred schema and exit\n")
	fmt.Fprintf(os.Stderr, "  --head N\n\t\tPrint the first N rows (default 10)\n")
	fmt.Fprintf(os.Stderr, "  --describe\n\t\tPrint summary statistics per numeric column\n")
	fmt.Fprintf(os.Stderr, "  --config path\n\t\tLoad configuration from a YAML or JSON file\n")
	fmt.Fprintf(os.Stderr, "  -h, --help\n\t\tShow this help message and exit\n")
}

func main() {
	schemaFlag := flag.Bool("schema", false, "Print the inferred schema and exit")
	headFlag := flag.Int("head", 0, "Print the first N rows")
	describeFlag := flag.Bool("describe", false, "Print summary statistics per numeric column")
	configFlag := flag.String("config", "", "Load configuration from a YAML or JSON file")

	flag.Usage = customUsage
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	if *configFlag != "" {
		if err := stdframe.LoadConfig(*configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
			os.Exit(1)
		}
	}

	df, err := readFrame(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", path, err)
		os.Exit(1)
	}
	defer df.Release()

	switch {
	case *schemaFlag:
		fmt.Println(df.String())
	case *describeFlag:
		describe(df)
	default:
		n := *headFlag
		if n == 0 {
			n = 10
		}
		printHead(df, n)
	}
}

func readFrame(path string) (*stdframe.DataFrame, error) {
	if strings.HasSuffix(path, ".jsonl") || strings.HasSuffix(path, ".ndjson") {
		return stdframe.ReadJSON(path, stdframe.DefaultJSONOptions())
	}
	return stdframe.ReadCSV(path, stdframe.DefaultCSVOptions())
}

func printHead(df *stdframe.DataFrame, n int) {
	if n > df.Len() {
		n = df.Len()
	}

	names := df.Columns()
	fmt.Println(strings.Join(names, "\t"))
	for i := 0; i < n; i++ {
		row := make([]string, len(names))
		for j, name := range names {
			c, _ := df.Column(name)
			v, err := c.GetValue(i)
			c.Release()
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading row %d: %v\n", i, err)
				os.Exit(1)
			}
			if v == nil {
				row[j] = "null"
			} else {
				row[j] = fmt.Sprintf("%v", v)
			}
		}
		fmt.Println(strings.Join(row, "\t"))
	}
}

func describe(df *stdframe.DataFrame) {
	opts := stdframe.DefaultReduceOptions()
	fmt.Printf("%-16s %10s %10s %10s %10s %10s\n", "column", "count", "mean", "std", "min", "max")

	for _, name := range df.Columns() {
		c, _ := df.Column(name)
		if !c.DType().IsNumeric() {
			c.Release()
			continue
		}

		mean, _ := c.Mean(opts)
		std, _ := c.Std(opts)
		lo, _ := c.Min(opts)
		hi, _ := c.Max(opts)
		count := c.Len() - c.NullCount()
		c.Release()

		fmt.Printf("%-16s %10d %10.4g %10.4g %10.4g %10.4g\n", name, count, mean, std, lo, hi)
	}
}
