// Command xbasedump opens a table and prints its structure and the first
// records, optionally together with the tags of a multi tag index file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Valentin-Kaiser/go-xbase/internal/styles"
	"github.com/Valentin-Kaiser/go-xbase/xbase"
)

func main() {
	var (
		records = flag.Int("records", 10, "number of records to print, 0 for none")
		mdxFile = flag.String("mdx", "", "multi tag index file to dump alongside the table")
		padding = flag.Bool("padding", false, "keep the trailing spaces of character fields")
		debug   = flag.Bool("debug", false, "enable driver debug output")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: xbasedump [flags] <table.dbf>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *debug {
		xbase.SetDebug(true)
		xbase.SetOutput(os.Stderr)
	}

	path := flag.Arg(0)
	table, err := xbase.OpenTable(&xbase.Config{
		Filename:    filepath.Base(path),
		WorkDir:     filepath.Dir(path),
		DisableTrim: *padding,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.Error(err.Error()))
		os.Exit(1)
	}
	defer table.Close()

	printStructure(path, table)
	if *records > 0 {
		if err := printRecords(table, *records); err != nil {
			fmt.Fprintln(os.Stderr, styles.Error(err.Error()))
			os.Exit(1)
		}
	}
	if *mdxFile != "" {
		if err := printMDX(*mdxFile); err != nil {
			fmt.Fprintln(os.Stderr, styles.Error(err.Error()))
			os.Exit(1)
		}
	}
}

func printStructure(path string, table *xbase.Table) {
	structure := table.Structure()
	fmt.Println(styles.Header(path))
	lines := []string{
		fmt.Sprintf("%s %#x", styles.Dim("Version:"), structure.Version),
		fmt.Sprintf("%s %d", styles.Dim("Records:"), structure.RecordCount),
		fmt.Sprintf("%s %d header / %d record", styles.Dim("Lengths:"), structure.HeaderLength, structure.RecordLength),
		fmt.Sprintf("%s %v", styles.Dim("Updated:"), structure.LastUpdated),
		fmt.Sprintf("%s %v", styles.Dim("Memo:"), structure.MemoExists),
	}
	fmt.Println(styles.Box(strings.Join(lines, "\n")))

	fmt.Println(styles.SubHeader("Fields"))
	for position := 1; position <= structure.FieldCount(); position++ {
		field, err := structure.Field(position)
		if err != nil {
			continue
		}
		fmt.Printf("  %2d %s %v %d.%d\n",
			position, styles.Column(fmt.Sprintf("%-10s", field.Name)), field.Type, field.Length, field.Decimals)
	}
}

func printRecords(table *xbase.Table, limit int) error {
	structure := table.Structure()
	count := int(table.RecordCount())
	if count == 0 {
		fmt.Println(styles.Dim("no records"))
		return nil
	}
	if limit > count {
		limit = count
	}
	fmt.Println(styles.SubHeader(fmt.Sprintf("Records 1..%d of %d", limit, count)))

	header := make([]string, 0, structure.FieldCount())
	for position := 1; position <= structure.FieldCount(); position++ {
		field, err := structure.Field(position)
		if err != nil {
			return err
		}
		header = append(header, fmt.Sprintf("%-*s", columnWidth(field), field.Name))
	}
	fmt.Println("    " + styles.Column(strings.Join(header, " ")))

	for n := 1; n <= limit; n++ {
		if err := table.GoTo(n); err != nil {
			return err
		}
		cells := make([]string, 0, structure.FieldCount())
		for position := 1; position <= structure.FieldCount(); position++ {
			field, _ := structure.Field(position)
			value, err := table.Value(position)
			if err != nil {
				return err
			}
			cells = append(cells, fmt.Sprintf("%-*s", columnWidth(field), value.String()))
		}
		line := strings.Join(cells, " ")
		if table.Deleted() {
			fmt.Printf("%3d %s\n", n, styles.Deleted(line))
			continue
		}
		fmt.Printf("%3d %s\n", n, line)
	}
	return nil
}

// columnWidth widens short columns to their name and gives memo columns a
// fixed width of 20. Values longer than the width are not cut.
func columnWidth(field xbase.Field) int {
	width := int(field.Length)
	if field.Type.IsMemo() {
		width = 20
	}
	if len(field.Name) > width {
		width = len(field.Name)
	}
	return width
}

func printMDX(path string) error {
	index, err := xbase.OpenMDX(&xbase.Config{
		Filename: filepath.Base(path),
		WorkDir:  filepath.Dir(path),
	})
	if err != nil {
		return err
	}
	defer index.Close()
	fmt.Println(styles.Header(path))
	index.WriteStructure(os.Stdout)
	return nil
}
