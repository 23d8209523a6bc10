// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Provides add, edit, remove, list, and summary operations for AI agents

package mcp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/harper/fuel/internal/records"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerAddEntryTool()
	s.registerEditEntryTool()
	s.registerRemoveEntryTool()
	s.registerListEntriesTool()
	s.registerGetSummaryTool()
}

// EntryInput defines the fill-up fields shared by add_entry and edit_entry.
type EntryInput struct {
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Liters   float64 `json:"liters"`
	Distance float64 `json:"distance"`
}

func (in EntryInput) candidate() records.Candidate {
	return records.Candidate{
		Date:     in.Date,
		Time:     in.Time,
		Liters:   strconv.FormatFloat(in.Liters, 'f', -1, 64),
		Distance: strconv.FormatFloat(in.Distance, 'f', -1, 64),
	}
}

// EntryOutput is one fill-up as seen by agents.
type EntryOutput struct {
	Index       int      `json:"index"`
	Date        string   `json:"date"`
	Time        string   `json:"time,omitempty"`
	Liters      float64  `json:"liters"`
	Distance    float64  `json:"distance_km"`
	Consumption *float64 `json:"consumption_km_per_l,omitempty"`
	Delta       *float64 `json:"delta,omitempty"`
	DayGap      *int     `json:"days_since_previous,omitempty"`
}

// ListEntriesOutput defines output for list and mutation tools. Indices shift
// on every mutation, so mutations return the fresh list.
type ListEntriesOutput struct {
	Entries            []EntryOutput `json:"entries"`
	Count              int           `json:"count"`
	AverageConsumption float64       `json:"average_consumption"`
}

func toEntryOutput(r records.Row) EntryOutput {
	out := EntryOutput{
		Index:    r.Index,
		Date:     r.Entry.Date,
		Time:     r.Entry.Time,
		Liters:   r.Entry.Liters,
		Distance: r.Entry.Distance,
		DayGap:   r.DayGap,
	}
	if r.Entry.HasConsumption() {
		c := r.Entry.Consumption
		out.Consumption = &c
	}
	if r.Delta != nil {
		d := r.Delta.Value
		out.Delta = &d
	}
	return out
}

func (s *Server) listOutput(limit int) ListEntriesOutput {
	entries := []EntryOutput{}
	for row := range s.store.DisplayList() {
		if limit > 0 && len(entries) >= limit {
			break
		}
		entries = append(entries, toEntryOutput(row))
	}
	sum := s.store.Summary()
	return ListEntriesOutput{
		Entries:            entries,
		Count:              sum.Count,
		AverageConsumption: sum.AverageConsumption,
	}
}

func entryProperties() map[string]interface{} {
	return map[string]interface{}{
		"date": map[string]interface{}{
			"type":        "string",
			"description": "Fill-up date as YYYY-MM-DD",
		},
		"time": map[string]interface{}{
			"type":        "string",
			"description": "Fill-up clock time as HH:MM",
		},
		"liters": map[string]interface{}{
			"type":        "number",
			"description": "Fuel added in liters",
		},
		"distance": map[string]interface{}{
			"type":        "number",
			"description": "Kilometres driven since the previous fill-up",
		},
	}
}

func (s *Server) registerAddEntryTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_entry",
		Description: "Record a fill-up. Consumption (km/L) is derived from distance and liters.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": entryProperties(),
			"required":   []string{"date", "time", "liters", "distance"},
		},
	}, s.handleAddEntry)
}

func (s *Server) handleAddEntry(_ context.Context, req *mcp.CallToolRequest, input EntryInput) (*mcp.CallToolResult, ListEntriesOutput, error) {
	if err := s.store.Upsert(input.candidate(), records.NewIndex); err != nil {
		return nil, ListEntriesOutput{}, fmt.Errorf("failed to add entry: %w", err)
	}
	s.log.Debug().Str("date", input.Date).Msg("entry added via mcp")

	output := s.listOutput(0)
	return jsonResult(output), output, nil
}

// EditEntryInput defines input for edit_entry tool.
type EditEntryInput struct {
	Index int `json:"index"`
	EntryInput
}

func (s *Server) registerEditEntryTool() {
	props := entryProperties()
	props["index"] = map[string]interface{}{
		"type":        "integer",
		"description": "Current index of the entry, as returned by list_entries",
	}
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "edit_entry",
		Description: "Replace the fill-up at an index. Indices change after every mutation, so list first.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": props,
			"required":   []string{"index", "date", "time", "liters", "distance"},
		},
	}, s.handleEditEntry)
}

func (s *Server) handleEditEntry(_ context.Context, req *mcp.CallToolRequest, input EditEntryInput) (*mcp.CallToolResult, ListEntriesOutput, error) {
	if input.Index < 0 {
		return nil, ListEntriesOutput{}, fmt.Errorf("index must be non-negative, got %d", input.Index)
	}
	if err := s.store.Upsert(input.candidate(), input.Index); err != nil {
		return nil, ListEntriesOutput{}, fmt.Errorf("failed to edit entry: %w", err)
	}
	s.log.Debug().Int("index", input.Index).Msg("entry edited via mcp")

	output := s.listOutput(0)
	return jsonResult(output), output, nil
}

// RemoveEntryInput defines input for remove_entry tool.
type RemoveEntryInput struct {
	Index int `json:"index"`
}

func (s *Server) registerRemoveEntryTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "remove_entry",
		Description: "Remove the fill-up at an index. This cannot be undone.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Current index of the entry, as returned by list_entries",
				},
			},
			"required": []string{"index"},
		},
	}, s.handleRemoveEntry)
}

func (s *Server) handleRemoveEntry(_ context.Context, req *mcp.CallToolRequest, input RemoveEntryInput) (*mcp.CallToolResult, ListEntriesOutput, error) {
	if err := s.store.Remove(input.Index); err != nil {
		return nil, ListEntriesOutput{}, fmt.Errorf("failed to remove entry: %w", err)
	}
	s.log.Debug().Int("index", input.Index).Msg("entry removed via mcp")

	output := s.listOutput(0)
	return jsonResult(output), output, nil
}

// ListEntriesInput defines input for list_entries tool.
type ListEntriesInput struct {
	Limit int `json:"limit,omitempty"`
}

func (s *Server) registerListEntriesTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_entries",
		Description: "List fill-ups newest first with consumption deltas and days since the previous fill-up.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Optional maximum number of entries to return",
				},
			},
		},
	}, s.handleListEntries)
}

func (s *Server) handleListEntries(_ context.Context, req *mcp.CallToolRequest, input ListEntriesInput) (*mcp.CallToolResult, ListEntriesOutput, error) {
	output := s.listOutput(input.Limit)
	return jsonResult(output), output, nil
}

// SummaryInput is empty but required for type.
type SummaryInput struct{}

// SummaryOutput defines output for get_summary tool.
type SummaryOutput struct {
	AverageConsumption float64 `json:"average_consumption"`
	Count              int     `json:"count"`
	TotalLiters        float64 `json:"total_liters"`
	TotalKm            float64 `json:"total_km"`
}

func (s *Server) registerGetSummaryTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_summary",
		Description: "Get average consumption (km/L), entry count, and totals.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleGetSummary)
}

func (s *Server) handleGetSummary(_ context.Context, req *mcp.CallToolRequest, input SummaryInput) (*mcp.CallToolResult, SummaryOutput, error) {
	sum := s.store.Summary()
	totals := s.store.Totals()

	output := SummaryOutput{
		AverageConsumption: sum.AverageConsumption,
		Count:              sum.Count,
		TotalLiters:        totals.TotalLiters,
		TotalKm:            totals.TotalKm,
	}
	return jsonResult(output), output, nil
}
