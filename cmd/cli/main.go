// Command detcover ingests, validates, and re-exports detection
// coverage assessment data.
//
//	detcover import -file tactics.csv -category tactics -session out.json
//	detcover export -session out.json -out ./csv
//	detcover validate -session out.json
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/detcover/detcover/pkg/config"
	"github.com/detcover/detcover/pkg/document"
	"github.com/detcover/detcover/pkg/exporter"
	"github.com/detcover/detcover/pkg/finding"
	"github.com/detcover/detcover/pkg/headermap"
	"github.com/detcover/detcover/pkg/importer"
	"github.com/detcover/detcover/pkg/jsonutil"
	"github.com/detcover/detcover/pkg/schema"
	"github.com/detcover/detcover/pkg/snapshot"
	"github.com/detcover/detcover/pkg/ui"
	"github.com/detcover/detcover/pkg/validate"
)

// Exit codes: 0 clean, 1 findings with error severity, 2 rejected
// input or usage error.
const (
	exitOK       = 0
	exitFindings = 1
	exitRejected = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return exitRejected
	}
	switch args[0] {
	case "import":
		return runImport(args[1:])
	case "export":
		return runExport(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "help", "-h", "--help":
		usage()
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		return exitRejected
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `detcover - detection coverage assessment data tool

Commands:
  import    import a CSV file into a session document
  export    export a session document as per-category CSVs
  validate  validate a session document and show derived values

Run 'detcover <command> -h' for command flags.
`)
}

// mapFlag collects repeated -map field=column overrides.
type mapFlag map[string]string

func (m mapFlag) String() string { return "" }

func (m mapFlag) Set(s string) error {
	field, column, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected field=column, got %q", s)
	}
	m[field] = column
	return nil
}

// categoryAliases lets the CLI accept short names.
var categoryAliases = map[string]schema.Category{
	"general":         schema.GeneralInfo,
	"results":         schema.TestResults,
	"tactics":         schema.MitreTactics,
	"rules":           schema.TriggeredRules,
	"undetected":      schema.UndetectedTechniques,
	"recommendations": schema.Recommendations,
}

func parseCategory(name string) (schema.Category, error) {
	if cat, ok := categoryAliases[name]; ok {
		return cat, nil
	}
	cat := schema.Category(name)
	if cat.IsValid() {
		return cat, nil
	}
	return "", fmt.Errorf("unknown category %q", name)
}

func runImport(args []string) int {
	cfg := config.Config{Overrides: mapFlag{}}
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	fs.StringVar(&cfg.File, "file", "", "CSV file to import (required)")
	fs.StringVar(&cfg.Category, "category", "", "target category (required)")
	fs.StringVar(&cfg.Session, "session", "", "session snapshot to extend (created when absent)")
	fs.StringVar(&cfg.AliasFile, "aliases", "", "YAML alias-override file")
	fs.Var(mapFlag(cfg.Overrides), "map", "manual mapping override field=column (repeatable)")
	fs.StringVar(&cfg.OutputFormat, "format", "console", "output format: console, json")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "print mapping suggestions")
	fs.Parse(args)

	if cfg.File == "" || cfg.Category == "" {
		fmt.Fprintf(os.Stderr, "%v: -file and -category\n", config.ErrMissingRequired)
		fs.Usage()
		return exitRejected
	}
	if cfg.OutputFormat != "console" && cfg.OutputFormat != "json" {
		return fail(fmt.Errorf("unknown format %q", cfg.OutputFormat))
	}
	cat, err := parseCategory(cfg.Category)
	if err != nil {
		return fail(err)
	}

	reg := schema.NewRegistry()
	if cfg.AliasFile != "" {
		if err := config.LoadAliases(cfg.AliasFile, reg); err != nil {
			return fail(err)
		}
	}

	doc, err := loadSession(reg, cfg.Session)
	if err != nil {
		return fail(err)
	}

	data, err := os.ReadFile(cfg.File)
	if err != nil {
		return fail(err)
	}

	res, err := importer.Run(reg, cat, data, cfg.Overrides, doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import rejected: %v\n", err)
		return exitRejected
	}
	if cfg.OutputFormat == "json" {
		if err := printImportJSON(res); err != nil {
			return fail(err)
		}
	} else {
		if cfg.Verbose {
			if sugg, err2 := previewSuggestions(reg, cat, data); err2 == nil {
				ui.PrintMappingSuggestions(os.Stdout, sugg)
			}
		}
		ui.PrintImportResult(os.Stdout, res)
	}

	if cfg.Session != "" {
		if err := saveSession(reg, doc, cfg.Session); err != nil {
			return fail(err)
		}
	}

	for _, row := range res.Rows {
		if !row.Committable() {
			return exitFindings
		}
	}
	return exitOK
}

// printImportJSON emits the import result as machine-readable JSON.
func printImportJSON(res importer.Result) error {
	summary := struct {
		ImportID   string         `json:"import_id"`
		State      string         `json:"state"`
		Category   string         `json:"category"`
		Delimiter  string         `json:"delimiter"`
		Committed  int            `json:"committed"`
		Unresolved []string       `json:"unresolved,omitempty"`
		Rows       []importer.Row `json:"rows,omitempty"`
	}{
		ImportID:   res.ImportID.String(),
		State:      res.State.String(),
		Category:   res.Category.String(),
		Delimiter:  string(res.Delimiter),
		Committed:  res.Committed,
		Unresolved: res.Unresolved,
		Rows:       res.Rows,
	}
	data, err := jsonutil.MarshalIndent(summary, "  ")
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}

// previewSuggestions reruns just the mapping stage for display.
// Repeating categories only; scalar imports have no header row.
func previewSuggestions(reg *schema.Registry, cat schema.Category, data []byte) ([]headermap.MappingCandidate, error) {
	if cat.Scalar() {
		return nil, fmt.Errorf("scalar category")
	}
	imp, err := importer.New(reg, cat, data)
	if err != nil {
		return nil, err
	}
	if err := imp.DetectDelimiter(); err != nil {
		return nil, err
	}
	if err := imp.ParseHeaders(); err != nil {
		return nil, err
	}
	return imp.Suggest()
}

func runExport(args []string) int {
	var cfg config.Config
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.StringVar(&cfg.Session, "session", "", "session snapshot to export (required)")
	fs.StringVar(&cfg.OutDir, "out", ".", "output directory")
	fs.StringVar(&cfg.Delimiter, "delimiter", ",", "field delimiter")
	fs.BoolVar(&cfg.ExcelCompatible, "excel", false, "prepend UTF-8 BOM for Excel")
	fs.BoolVar(&cfg.IncludeDerived, "derived", false, "append recomputed derived columns")
	fs.Parse(args)

	if cfg.Session == "" {
		fmt.Fprintf(os.Stderr, "%v: -session\n", config.ErrMissingRequired)
		fs.Usage()
		return exitRejected
	}
	delim := []rune(cfg.Delimiter)
	if len(delim) != 1 {
		return fail(fmt.Errorf("delimiter must be a single character, got %q", cfg.Delimiter))
	}

	reg := schema.NewRegistry()
	doc, err := loadSession(reg, cfg.Session)
	if err != nil {
		return fail(err)
	}

	blobs, err := exporter.Export(reg, doc, exporter.Options{
		Delimiter:       delim[0],
		ExcelCompatible: cfg.ExcelCompatible,
		IncludeDerived:  cfg.IncludeDerived,
	})
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fail(err)
	}
	names := make([]string, 0, len(blobs))
	for cat := range blobs {
		names = append(names, cat.String())
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(cfg.OutDir, name+".csv")
		if err := os.WriteFile(path, blobs[schema.Category(name)], 0o644); err != nil {
			return fail(err)
		}
		fmt.Printf("wrote %s\n", path)
	}
	return exitOK
}

func runValidate(args []string) int {
	var cfg config.Config
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.StringVar(&cfg.Session, "session", "", "session snapshot to validate (required)")
	fs.Parse(args)

	if cfg.Session == "" {
		fmt.Fprintf(os.Stderr, "%v: -session\n", config.ErrMissingRequired)
		fs.Usage()
		return exitRejected
	}

	reg := schema.NewRegistry()
	doc, err := loadSession(reg, cfg.Session)
	if err != nil {
		return fail(err)
	}

	hadErrors := false
	for _, cat := range schema.Categories() {
		if cat.Scalar() {
			findings := validate.Record(reg, cat, doc.Scalar(cat))
			ui.PrintFindings(os.Stdout, cat.String(), findings)
			hadErrors = hadErrors || finding.HasErrors(findings)
			printDerived(cat, doc.Scalar(cat))
			continue
		}
		perRow := validate.Sequence(reg, cat, doc.Rows(cat))
		var flat []finding.Finding
		for i, rowFindings := range perRow {
			for _, f := range rowFindings {
				f.Message = fmt.Sprintf("row %d: %s", i+1, f.Message)
				flat = append(flat, f)
			}
		}
		ui.PrintFindings(os.Stdout, cat.String(), flat)
		hadErrors = hadErrors || finding.HasErrors(flat)
	}

	if hadErrors {
		return exitFindings
	}
	return exitOK
}

func printDerived(cat schema.Category, rec document.Record) {
	derived := validate.Derived(cat, rec)
	if len(derived) == 0 {
		return
	}
	names := make([]string, 0, len(derived))
	for name := range derived {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s = %.1f\n", name, derived[name])
	}
}

func loadSession(reg *schema.Registry, path string) (*document.Document, error) {
	if path == "" {
		return document.New(), nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return document.New(), nil
	}
	if err != nil {
		return nil, err
	}
	return snapshot.Unmarshal(reg, data)
}

func saveSession(reg *schema.Registry, doc *document.Document, path string) error {
	data, err := snapshot.Marshal(reg, doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fail(err error) int {
	fmt.Fprintln(os.Stderr, err)
	return exitRejected
}
