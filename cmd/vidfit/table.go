package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// column describes one table column; numeric columns are right aligned.
type column struct {
	Header  string
	Numeric bool
}

func col(header string) column { return column{Header: header} }

func num(header string) column { return column{Header: header, Numeric: true} }

var numberPrinter = message.NewPrinter(language.English)

// renderTable draws rows under columns. Short rows are padded and extra cells dropped.
func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.Header
		align := text.AlignLeft
		if c.Numeric {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

// renderKeyValues renders a two-column property table.
func renderKeyValues(pairs [][2]string) string {
	rows := make([][]string, len(pairs))
	for i, pair := range pairs {
		rows[i] = pair[:]
	}
	return renderTable([]column{col("Property"), num("Value")}, rows)
}

func formatKbps(kbps float64) string {
	return numberPrinter.Sprintf("%.2f kbps", kbps)
}

func formatKbpsInt(kbps int) string {
	return numberPrinter.Sprintf("%d kbps", kbps)
}

func formatSeconds(seconds float64) string {
	return numberPrinter.Sprintf("%.2f s", seconds)
}
