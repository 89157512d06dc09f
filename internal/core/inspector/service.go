// Package inspector produces a read-only structure report for an uploaded
// workbook, so an operator can pick sheets and columns before running a
// reconciliation. It accepts .xlsx and legacy .xls input.
package inspector

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"reconciler-service/internal/domain"
	"reconciler-service/internal/grid"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Service define a interface para a análise de estrutura de planilhas.
type Service interface {
	Inspect(file io.Reader, filename string) (*domain.WorkbookInspection, error)
}

type service struct {
	log *zap.Logger
}

// NewService cria uma nova instância do serviço de inspeção.
func NewService(log *zap.Logger) Service {
	return &service{log: log}
}

var accountKeywords = []string{"ACCOUNT", "NAME", "DESCRIPTION", "CODE"}
var amountKeywords = []string{"AMOUNT", "BALANCE", "TOTAL", "VALUE", "CURRENT", "PRIOR"}

type namedSheet struct {
	name string
	rows [][]string
}

func (s *service) Inspect(file io.Reader, filename string) (*domain.WorkbookInspection, error) {
	sheets, err := loadWorkbook(file, filename)
	if err != nil {
		return nil, err
	}

	report := &domain.WorkbookInspection{Sheets: make([]domain.SheetInspection, 0, len(sheets))}
	for _, sh := range sheets {
		insp := inspectSheet(sh)
		s.log.Info("sheet inspected", zap.String("sheet", insp.Name),
			zap.Int("rows", insp.Rows), zap.Int("accounts", insp.AccountCount))
		report.Sheets = append(report.Sheets, insp)
	}
	return report, nil
}

func inspectSheet(sh namedSheet) domain.SheetInspection {
	insp := domain.SheetInspection{
		Name:           sh.name,
		Rows:           len(sh.rows),
		Headers:        []string{},
		AccountColumns: []string{},
		AmountColumns:  []string{},
	}
	for _, row := range sh.rows {
		if len(row) > insp.Columns {
			insp.Columns = len(row)
		}
	}
	if len(sh.rows) > 0 {
		insp.Headers = sh.rows[0]
	}

	for i, h := range insp.Headers {
		letter, err := grid.IndexToLetter(i)
		if err != nil {
			continue
		}
		upper := strings.ToUpper(h)
		for _, kw := range accountKeywords {
			if strings.Contains(upper, kw) {
				insp.AccountColumns = append(insp.AccountColumns, letter)
				break
			}
		}
		for _, kw := range amountKeywords {
			if strings.Contains(upper, kw) {
				insp.AmountColumns = append(insp.AmountColumns, letter)
				break
			}
		}
	}

	for _, row := range sh.rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || utf8.RuneCountInString(name) <= 5 || strings.HasPrefix(name, "^") {
			continue
		}
		if _, err := strconv.ParseFloat(name, 64); err == nil {
			continue
		}
		insp.AccountCount++
	}
	return insp
}

// loadWorkbook reads every sheet of an .xlsx or legacy .xls workbook into
// string rows.
func loadWorkbook(file io.Reader, filename string) ([]namedSheet, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	reader := bytes.NewReader(data)

	if strings.ToLower(filepath.Ext(filename)) != ".xls" {
		if f, err := excelize.OpenReader(reader); err == nil {
			defer f.Close()
			var sheets []namedSheet
			for _, name := range f.GetSheetList() {
				rows, err := f.GetRows(name)
				if err != nil {
					continue
				}
				sheets = append(sheets, namedSheet{name: name, rows: rows})
			}
			return sheets, nil
		}
		reader.Seek(0, io.SeekStart)
	}

	workbook, err := xls.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("unsupported workbook file format")
	}
	var sheets []namedSheet
	for _, sheet := range workbook.GetSheets() {
		var rows [][]string
		for _, row := range sheet.GetRows() {
			var r []string
			for _, cell := range row.GetCols() {
				r = append(r, cell.GetString())
			}
			rows = append(rows, r)
		}
		sheets = append(sheets, namedSheet{name: sheet.GetName(), rows: rows})
	}
	return sheets, nil
}
