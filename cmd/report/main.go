// Command report summarizes a directory of extraction records as a CSV
// or XLSX field-completeness report.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"dociq/internal/report"
	"dociq/internal/schema"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		input  = flag.String("input", "", "directory containing JSON extraction records")
		format = flag.String("format", "csv", "report format: csv or xlsx")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		return fmt.Errorf("-input is required")
	}

	registry := schema.NewRegistry()
	reports, summary, err := report.AnalyzeDir(*input, registry)
	if err != nil {
		return err
	}

	outPath := filepath.Join(*input, "report_summary."+*format)
	switch *format {
	case "csv":
		if err := writeCSV(outPath, reports); err != nil {
			return err
		}
	case "xlsx":
		if err := report.WriteXLSX(outPath, reports, summary); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", *format)
	}

	fmt.Printf("Total files analyzed: %d\n", summary.TotalFiles)
	fmt.Printf("Average completion:   %.2f%%\n", summary.AverageCompletion)
	fmt.Printf("Files using fallback: %d\n", summary.FallbackCount)
	fmt.Printf("Report saved to %s\n", outPath)
	return nil
}

func writeCSV(path string, reports []report.FileReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(report.BOM); err != nil {
		return err
	}

	w := report.NewCSVWriter(f)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteReports(reports); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
