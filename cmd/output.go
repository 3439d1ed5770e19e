package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/bizintel/internal/scrape"
)

// Batch output formats.
const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatText = "text"
	formatYAML = "yaml"
	formatXLSX = "xlsx"
)

var reportColumns = []string{"website_url", "domain", "linkedin_url", "success"}

func validFormat(f string) bool {
	switch f {
	case formatJSON, formatCSV, formatText, formatYAML, formatXLSX:
		return true
	}
	return false
}

// writeReport renders report to w. xlsx is file-only and goes through writeXLSX.
func writeReport(w io.Writer, report *scrape.BatchReport, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(w, report)
	case formatCSV:
		return writeCSV(w, report)
	case formatText:
		return writeText(w, report)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(report); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		if err := enc.Close(); err != nil {
			return eris.Wrap(err, "close yaml encoder")
		}
		return nil
	}
	return eris.Errorf("unsupported output format %q", format)
}

func reportRows(report *scrape.BatchReport) [][]string {
	rows := make([][]string, 0, len(report.Results))
	for _, r := range report.Results {
		rows = append(rows, []string{r.WebsiteURL, r.Domain, r.LinkedInURL, strconv.FormatBool(r.Success)})
	}
	return rows
}

func writeCSV(w io.Writer, report *scrape.BatchReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportColumns); err != nil {
		return eris.Wrap(err, "write csv header")
	}
	if err := cw.WriteAll(reportRows(report)); err != nil {
		return eris.Wrap(err, "write csv rows")
	}
	return nil
}

func writeText(w io.Writer, report *scrape.BatchReport) error {
	found := 0
	for _, r := range report.Results {
		if r.LinkedInURL != "" {
			found++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nResults: Found %d LinkedIn URLs out of %d websites\n\n", found, report.Total)
	fmt.Fprintf(&b, "%-40s%s\n", "Website", "LinkedIn URL")
	b.WriteString(strings.Repeat("-", 80) + "\n")
	for _, r := range report.Results {
		li := r.LinkedInURL
		if li == "" {
			li = "Not found"
		}
		fmt.Fprintf(&b, "%-40s %s\n", r.Domain, li)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "write text")
	}
	return nil
}

// writeXLSX saves report as a workbook with a single "results" sheet.
func writeXLSX(path string, report *scrape.BatchReport) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("results")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}
	for _, cells := range append([][]string{reportColumns}, reportRows(report)...) {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}
