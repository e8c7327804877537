package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/pkg/utils"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatSummary OutputFormat = "summary"
	FormatGroups  OutputFormat = "groups"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
)

// ParseFormat validates a format name from config or flags
func ParseFormat(name string) (OutputFormat, error) {
	switch OutputFormat(name) {
	case FormatSummary, FormatGroups, FormatJSON, FormatYAML:
		return OutputFormat(name), nil
	default:
		return "", fmt.Errorf("unsupported format %q (use summary, groups, json or yaml)", name)
	}
}

// Reporter renders a finished scan result to a sink. Rendering is a pure
// projection: it never mutates the result, and a rendering failure is a
// reporter error, never a scan error.
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// Report renders the scan result in the configured format
func (r *Reporter) Report(result *scanner.Result) error {
	switch r.format {
	case FormatSummary:
		return r.reportSummary(result)
	case FormatGroups:
		return r.reportGroups(result)
	case FormatJSON:
		return r.reportJSON(result)
	case FormatYAML:
		return r.reportYAML(result)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// reportSummary prints scan totals and the most reclaimable groups
func (r *Reporter) reportSummary(result *scanner.Result) error {
	if _, err := fmt.Fprintf(r.writer, "=== Duplicate Scan Summary ===\n"); err != nil {
		return err
	}
	if result.Partial {
		fmt.Fprintf(r.writer, "(partial result: scan was cancelled)\n")
	}
	fmt.Fprintf(r.writer, "Root: %s\n", result.Root)
	fmt.Fprintf(r.writer, "Files Scanned: %d\n", result.FilesScanned)
	fmt.Fprintf(r.writer, "Bytes Hashed: %s\n", utils.FormatBytes(result.BytesHashed))
	fmt.Fprintf(r.writer, "Duplicate Groups: %d\n", len(result.Groups))
	fmt.Fprintf(r.writer, "Duplicate Files: %d\n", result.DuplicateFiles())
	fmt.Fprintf(r.writer, "Reclaimable: %s\n", utils.FormatBytes(result.TotalReclaimable()))
	fmt.Fprintf(r.writer, "Elapsed: %s\n", utils.FormatDuration(result.Duration))

	if len(result.Groups) > 0 {
		fmt.Fprintf(r.writer, "\nTop groups:\n")
		top := result.Groups
		if len(top) > 5 {
			top = top[:5]
		}
		for i := range top {
			fmt.Fprintf(r.writer, "  %d files x %s  (%s reclaimable)  %s\n",
				top[i].Count(),
				utils.FormatBytes(top[i].Size),
				utils.FormatBytes(top[i].Reclaimable()),
				top[i].Paths[0])
		}
	}

	r.reportWarnings(result)
	return nil
}

// reportGroups prints every duplicate set with its members
func (r *Reporter) reportGroups(result *scanner.Result) error {
	if result.Partial {
		if _, err := fmt.Fprintf(r.writer, "(partial result: scan was cancelled)\n"); err != nil {
			return err
		}
	}

	if len(result.Groups) == 0 {
		_, err := fmt.Fprintf(r.writer, "No duplicate files found.\n")
		return err
	}

	if _, err := fmt.Fprintf(r.writer, "Found %d set(s) of duplicate files:\n", len(result.Groups)); err != nil {
		return err
	}

	for i, group := range result.Groups {
		fmt.Fprintf(r.writer, "\n%d. %d files x %s (%s reclaimable) %s\n",
			i+1,
			group.Count(),
			utils.FormatBytes(group.Size),
			utils.FormatBytes(group.Reclaimable()),
			group.Digest.Hex())
		for _, path := range group.Paths {
			fmt.Fprintf(r.writer, "  - %s\n", path)
		}
	}

	r.reportWarnings(result)
	return nil
}

// jsonGroup is the machine-readable projection of one duplicate group
type jsonGroup struct {
	Digest      string   `json:"digest" yaml:"digest"`
	Count       int      `json:"count" yaml:"count"`
	Size        int64    `json:"size_bytes" yaml:"size_bytes"`
	Reclaimable int64    `json:"reclaimable_bytes" yaml:"reclaimable_bytes"`
	Paths       []string `json:"paths" yaml:"paths"`
}

// jsonReport is the machine-readable projection of a scan result
type jsonReport struct {
	Timestamp        string      `json:"timestamp" yaml:"timestamp"`
	Root             string      `json:"root" yaml:"root"`
	Partial          bool        `json:"partial" yaml:"partial"`
	FilesScanned     int64       `json:"files_scanned" yaml:"files_scanned"`
	BytesHashed      int64       `json:"bytes_hashed" yaml:"bytes_hashed"`
	GroupCount       int         `json:"group_count" yaml:"group_count"`
	ReclaimableBytes int64       `json:"reclaimable_bytes" yaml:"reclaimable_bytes"`
	Groups           []jsonGroup `json:"groups" yaml:"groups"`
	Warnings         []string    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func buildReport(result *scanner.Result) jsonReport {
	report := jsonReport{
		Timestamp:        time.Now().Format(time.RFC3339),
		Root:             result.Root,
		Partial:          result.Partial,
		FilesScanned:     result.FilesScanned,
		BytesHashed:      result.BytesHashed,
		GroupCount:       len(result.Groups),
		ReclaimableBytes: result.TotalReclaimable(),
		Groups:           make([]jsonGroup, 0, len(result.Groups)),
	}

	for i := range result.Groups {
		group := &result.Groups[i]
		report.Groups = append(report.Groups, jsonGroup{
			Digest:      group.Digest.Hex(),
			Count:       group.Count(),
			Size:        group.Size,
			Reclaimable: group.Reclaimable(),
			Paths:       group.Paths,
		})
	}

	for _, w := range result.Warnings {
		report.Warnings = append(report.Warnings, w.String())
	}

	return report
}

// reportJSON generates a JSON report
func (r *Reporter) reportJSON(result *scanner.Result) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildReport(result))
}

// reportYAML generates a YAML report
func (r *Reporter) reportYAML(result *scanner.Result) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(buildReport(result))
}

func (r *Reporter) reportWarnings(result *scanner.Result) {
	if len(result.Warnings) == 0 {
		return
	}
	fmt.Fprintf(r.writer, "\nWarnings: %d\n", len(result.Warnings))
	for _, w := range result.Warnings {
		fmt.Fprintf(r.writer, "  %s\n", w.String())
	}
}
