package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"github.com/grugslair/blob-arena-contracts/internal/usecase"
)

// RenderEvents renders decoded dojo records
func RenderEvents(out io.Writer, result *usecase.FetchEventsResult, asJSON bool) error {
	if asJSON {
		rows := make([]map[string]any, len(result.Records))
		for i, rec := range result.Records {
			rows[i] = map[string]any{
				"tag":    rec.Tag,
				"kind":   rec.Kind,
				"fields": rec.Fields,
			}
			if rec.Record != nil {
				rows[i]["block_number"] = rec.Record.BlockNumber
				rows[i]["transaction_hash"] = rec.Record.TransactionHash
			}
		}
		return JSON(out, rows)
	}
	if len(result.Records) == 0 {
		fmt.Fprintln(out, "No events found")
		return nil
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"Block", "Tag", "Kind", "Fields"})
	for _, rec := range result.Records {
		var block any
		if rec.Record != nil {
			block = rec.Record.BlockNumber
		}
		t.AppendRow(table.Row{block, tagStyle.Sprint(rec.Tag), rec.Kind, fields(rec.Fields)})
	}
	t.Render()
	fmt.Fprintf(out, "%d records\n", len(result.Records))
	return nil
}

func fields(values map[string]any) string {
	keys := lo.Keys(values)
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, values[k])
	}
	return strings.Join(parts, " ")
}
