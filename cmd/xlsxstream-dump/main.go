// Command xlsxstream-dump is a manual spot-check tool: it lists the sheets
// of an .xlsx file and dumps one batch of rows from each, mirroring the
// teacher's build-tag-gated _probe.go glob-and-print script.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wbreader/xlsxstream"
)

func main() {
	count := flag.Uint("count", 20, "rows to dump per sheet")
	start := flag.Uint64("start", 0, "0-based row ordinal to start at")
	verbose := flag.Bool("v", false, "log the row window being dumped")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-count N] [-start N] [-v] <file.xlsx>\n", os.Args[0])
		os.Exit(2)
	}

	buf, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("read %s: %v", flag.Arg(0), err)
	}

	sess, err := xlsxstream.OpenSession(buf)
	if err != nil {
		log.Fatalf("open session: %v", err)
	}
	defer sess.Close()

	sheets := sess.ListSheets()
	fmt.Printf("%s: %d sheet(s)\n", flag.Arg(0), len(sheets))

	var opts []xlsxstream.Option
	if *verbose {
		log.Printf("dumping rows [%d, %d) per sheet", *start, *start+uint64(*count))
	}

	for _, sh := range sheets {
		res, err := sess.Batch(sh.Name, *start, uint32(*count), opts...)
		if err != nil {
			fmt.Printf("  [%s] ERROR: %v\n", sh.Name, err)
			continue
		}
		fmt.Printf("  [%s] visibility=%v rows=%d done=%v\n", sh.Name, sh.Visibility, res.Returned, res.Done)
		for i, row := range res.Rows {
			values := make([]any, len(row))
			for j, c := range row {
				values[j] = xlsxstream.AsCellValue(c)
			}
			fmt.Printf("    row %d: %v\n", res.Start+uint64(i), values)
		}
	}
}
