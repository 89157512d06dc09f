package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"reconciler-service/internal/api/responses"
	"reconciler-service/internal/core/inspector"
	"reconciler-service/internal/core/reconciler"
	"reconciler-service/internal/domain"
	"reconciler-service/internal/grid"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReconcilerHandler lida com as requisições da API de reconciliação de balancetes.
type ReconcilerHandler struct {
	inspector        inspector.Service
	log              *zap.Logger
	defaultThreshold float64
}

// NewReconcilerHandler cria um novo handler de reconciliação.
func NewReconcilerHandler(insp inspector.Service, log *zap.Logger, defaultThreshold float64) *ReconcilerHandler {
	return &ReconcilerHandler{
		inspector:        insp,
		log:              log,
		defaultThreshold: defaultThreshold,
	}
}

// paramsFromForm collects the reconciliation parameters from the form fields.
func (h *ReconcilerHandler) paramsFromForm(c *gin.Context) domain.ReconcileParams {
	params := domain.ReconcileParams{
		ToUpdateSheet:  strings.TrimSpace(c.PostForm("toUpdateSheet")),
		ReferenceSheet: strings.TrimSpace(c.PostForm("referenceSheet")),
		ToUpdateColumns: domain.ColumnSpec{
			Account:     strings.TrimSpace(c.PostForm("toUpdateAccountCol")),
			CurrentYear: strings.TrimSpace(c.PostForm("toUpdateCurrentCol")),
			PriorYear:   strings.TrimSpace(c.PostForm("toUpdatePriorCol")),
		},
		ReferenceColumns: domain.ColumnSpec{
			Account:     strings.TrimSpace(c.PostForm("referenceAccountCol")),
			CurrentYear: strings.TrimSpace(c.PostForm("referenceCurrentCol")),
			PriorYear:   strings.TrimSpace(c.PostForm("referencePriorCol")),
		},
		Threshold:      h.defaultThreshold,
		ConsumeTargets: c.PostForm("consumeTargets") == "true",
	}

	if v := c.PostForm("threshold"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 100 {
			params.Threshold = f
		}
	}
	params.ToUpdateRange = rangeFromForm(c, "toUpdateStartRow", "toUpdateEndRow")
	params.ReferenceRange = rangeFromForm(c, "referenceStartRow", "referenceEndRow")
	return params
}

// rangeFromForm reads an optional row range; end 0 or absent means unbounded.
func rangeFromForm(c *gin.Context, startKey, endKey string) *domain.RowRange {
	start, _ := strconv.Atoi(c.PostForm(startKey))
	end, _ := strconv.Atoi(c.PostForm(endKey))
	if start <= 0 && end <= 0 {
		return nil
	}
	return &domain.RowRange{StartRow: start, EndRow: end}
}

// openWorkbook validates and opens the uploaded .xlsx workbook.
func openWorkbook(c *gin.Context) (*excelize.File, error) {
	fileHeader, err := c.FormFile("workbookFile")
	if err != nil {
		return nil, fmt.Errorf("arquivo de planilha (.xlsx) não encontrado ou inválido")
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xlsm" {
		return nil, fmt.Errorf("extensão de arquivo não suportada para atualização: %s", ext)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("não foi possível abrir o arquivo de planilha")
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("não foi possível ler o arquivo de planilha: %v", err)
	}
	return f, nil
}

// statusFor maps the engine error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var invalidCol *domain.InvalidColumnError
	var missing *domain.MissingParametersError
	switch {
	case errors.As(err, &invalidCol), errors.As(err, &missing):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSpreadsheetUnavailable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// HandleReconcile executa a reconciliação completa e devolve a planilha atualizada.
func (h *ReconcilerHandler) HandleReconcile(c *gin.Context) {
	f, err := openWorkbook(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	defer f.Close()

	params := h.paramsFromForm(c)
	svc := reconciler.NewService(grid.NewExcel(f), h.log)

	result, err := svc.Reconcile(params)
	if err != nil {
		h.log.Error("reconciliation failed", zap.Error(err))
		responses.Error(c, statusFor(err), "erro ao reconciliar a planilha", err.Error())
		return
	}

	accountsAppended := 0
	if c.PostForm("appendNewAccounts") == "true" && len(result.NewAccounts) > 0 {
		appendResult, err := svc.AppendNewAccounts(params.ToUpdateSheet, params.ToUpdateColumns, result.NewAccounts)
		if err != nil {
			h.log.Error("append failed", zap.Error(err))
			responses.Error(c, statusFor(err), "erro ao adicionar novas contas", err.Error())
			return
		}
		accountsAppended = appendResult.AccountsAdded
		c.Header("X-Append-Status", string(appendResult.Status))
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "erro ao gerar a planilha atualizada", err.Error())
		return
	}

	c.Header("X-Updates-Made", strconv.Itoa(result.UpdatesMade))
	c.Header("X-Matches-Found", strconv.Itoa(len(result.Matches)))
	c.Header("X-New-Accounts-Found", strconv.Itoa(len(result.NewAccounts)))
	c.Header("X-Accounts-Appended", strconv.Itoa(accountsAppended))
	c.Header("X-Verified", strconv.FormatBool(result.Verification.Verified))

	fileName := fmt.Sprintf("Reconciled_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, xlsxContentType, buffer.Bytes())
}

// HandlePreview executa extração e matching sem alterar a planilha.
func (h *ReconcilerHandler) HandlePreview(c *gin.Context) {
	f, err := openWorkbook(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	defer f.Close()

	params := h.paramsFromForm(c)
	svc := reconciler.NewService(grid.NewExcel(f), h.log)

	result, err := svc.Preview(params)
	if err != nil {
		h.log.Error("preview failed", zap.Error(err))
		responses.Error(c, statusFor(err), "erro ao analisar a planilha", err.Error())
		return
	}

	message := fmt.Sprintf("%d matches, %d new accounts", len(result.Matches), len(result.NewAccounts))
	responses.Success(c, result, message)
}

// HandleInspect devolve a estrutura da planilha enviada (.xls ou .xlsx).
func (h *ReconcilerHandler) HandleInspect(c *gin.Context) {
	fileHeader, err := c.FormFile("workbookFile")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "arquivo de planilha (.xls, .xlsx) não encontrado ou inválido")
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xls" && ext != ".xlsx" && ext != ".xlsm" {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("extensão de arquivo não suportada: %s", ext))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "não foi possível abrir o arquivo de planilha")
		return
	}
	defer file.Close()

	report, err := h.inspector.Inspect(file, fileHeader.Filename)
	if err != nil {
		h.log.Error("inspection failed", zap.Error(err))
		responses.Error(c, http.StatusInternalServerError, "erro ao inspecionar a planilha", err.Error())
		return
	}

	responses.Success(c, report, fmt.Sprintf("%d sheets inspected", len(report.Sheets)))
}
