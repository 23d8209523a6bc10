// ABOUTME: Export and backup functionality for fuel log data
// ABOUTME: Supports CSV, markdown, and JSON exports plus a YAML backup format

package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harper/fuel/internal/models"
	"gopkg.in/yaml.v3"
)

// BackupVersion is the current backup format version.
const BackupVersion = "1.0"

// TotalsLabel marks the trailing totals row in tabular exports.
const TotalsLabel = "TOTAL"

// Supported export formats.
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

var exportHeader = []string{"Date", "Time", "Liters (L)", "Distance (km)", "Consumption (km/L)"}

// Backup represents the YAML backup format.
type Backup struct {
	Version    string        `yaml:"version"`
	ExportedAt time.Time     `yaml:"exported_at"`
	Tool       string        `yaml:"tool"`
	Entries    []EntryBackup `yaml:"entries"`
}

// EntryBackup represents an entry in the backup format.
// Consumption is informational; restores recompute it.
type EntryBackup struct {
	Date        string   `yaml:"date"`
	Time        string   `yaml:"time,omitempty"`
	Liters      float64  `yaml:"liters"`
	Distance    float64  `yaml:"distance"`
	Consumption *float64 `yaml:"consumption,omitempty"`
}

// ExportBackup serializes entries as a YAML backup.
func ExportBackup(entries []models.Entry) ([]byte, error) {
	backup := Backup{
		Version:    BackupVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       "fuel",
		Entries:    make([]EntryBackup, len(entries)),
	}
	for i, e := range entries {
		backup.Entries[i] = EntryBackup{
			Date:     e.Date,
			Time:     e.Time,
			Liters:   e.Liters,
			Distance: e.Distance,
		}
		if e.HasConsumption() {
			c := e.Consumption
			backup.Entries[i].Consumption = &c
		}
	}
	return yaml.Marshal(backup)
}

// ParseBackup reads a YAML backup and returns its entries with consumption recomputed.
func ParseBackup(data []byte) ([]models.Entry, error) {
	var backup Backup
	if err := yaml.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version: %s (expected %s)", backup.Version, BackupVersion)
	}

	if backup.Tool != "fuel" {
		return nil, fmt.Errorf("wrong tool: %s (expected fuel)", backup.Tool)
	}

	entries := make([]models.Entry, len(backup.Entries))
	for i, b := range backup.Entries {
		entries[i] = models.NewEntry(b.Date, b.Time, b.Liters, b.Distance)
	}
	return entries, nil
}

// Export renders entries and their totals in the requested format.
func Export(format string, entries []models.Entry, totals models.Totals) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportCSV(entries, totals)
	case FormatMarkdown:
		return ExportMarkdown(entries, totals), nil
	case FormatJSON:
		return ExportJSON(entries, totals)
	default:
		return nil, fmt.Errorf("unsupported format: %s (use 'csv', 'markdown', or 'json')", format)
	}
}

// ExportCSV writes one row per entry and a trailing totals row.
func ExportCSV(entries []models.Entry, totals models.Totals) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		if err := w.Write(entryCells(e)); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	if err := w.Write(totalsCells(TotalsLabel, totals)); err != nil {
		return nil, fmt.Errorf("write totals: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportMarkdown renders entries as a markdown table with a bold totals row.
func ExportMarkdown(entries []models.Entry, totals models.Totals) []byte {
	var sb strings.Builder

	now := time.Now().UTC()
	sb.WriteString(fmt.Sprintf("# Fuel Log Export - %s\n\n", now.Format("2006-01-02")))

	sb.WriteString("| " + strings.Join(exportHeader, " | ") + " |\n")
	sb.WriteString("|------|------|------------|---------------|--------------------|\n")
	for _, e := range entries {
		sb.WriteString("| " + strings.Join(entryCells(e), " | ") + " |\n")
	}
	sb.WriteString("| " + strings.Join(totalsCells("**"+TotalsLabel+"**", totals), " | ") + " |\n")

	return []byte(sb.String())
}

// jsonExport is the JSON export document.
type jsonExport struct {
	Entries []jsonEntry   `json:"entries"`
	Totals  models.Totals `json:"totals"`
}

type jsonEntry struct {
	Date        string   `json:"date"`
	Time        string   `json:"time,omitempty"`
	Liters      float64  `json:"liters"`
	Distance    float64  `json:"distance"`
	Consumption *float64 `json:"consumption"`
}

// ExportJSON renders entries and totals as indented JSON.
func ExportJSON(entries []models.Entry, totals models.Totals) ([]byte, error) {
	doc := jsonExport{Entries: make([]jsonEntry, len(entries)), Totals: totals}
	for i, e := range entries {
		doc.Entries[i] = jsonEntry{Date: e.Date, Time: e.Time, Liters: e.Liters, Distance: e.Distance}
		if e.HasConsumption() {
			c := e.Consumption
			doc.Entries[i].Consumption = &c
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DefaultExportFilename returns fuel-YYYY-MM-DD.<ext> for the given format.
func DefaultExportFilename(format string, now time.Time) string {
	ext := format
	if format == FormatMarkdown {
		ext = "md"
	}
	return fmt.Sprintf("fuel-%s.%s", now.Format("2006-01-02"), ext)
}

func entryCells(e models.Entry) []string {
	cons := ""
	if e.HasConsumption() {
		cons = strconv.FormatFloat(e.Consumption, 'f', 2, 64)
	}
	return []string{
		e.Date,
		e.Time,
		formatNumber(e.Liters),
		formatNumber(e.Distance),
		cons,
	}
}

func totalsCells(label string, totals models.Totals) []string {
	return []string{
		label,
		"",
		formatNumber(models.RoundTo(totals.TotalLiters, 2)),
		formatNumber(models.RoundTo(totals.TotalKm, 1)),
		"avg " + strconv.FormatFloat(totals.AverageConsumption, 'f', 2, 64),
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
