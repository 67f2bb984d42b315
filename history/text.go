package history

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mohitkumar/wfnotify/model"
)

// ToTextTable renders records for a terminal, with the same columns as
// ToHtmlTable.
func ToTextTable(records []model.WorkflowEventRecord) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Date", "User", "Previous State", "Current State", "Comment"})
	for _, rec := range records {
		cols := Columns(rec)
		row := make(table.Row, len(cols))
		for i, c := range cols {
			row[i] = c
		}
		tw.AppendRow(row)
	}
	configs := make([]table.ColumnConfig, 0, 5)
	for i := 1; i <= 5; i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignLeft, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}
