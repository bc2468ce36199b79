package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/export"
	applog "fintrack/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once the store can be read.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.service.All(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	case http.MethodGet, http.MethodHead:
		s.handleViewTransactions(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Parse body error", "error", err, "content_type", parser.ContentType())
		BadRequestError("invalid request body").Write(w)
		return
	}

	t, err := ParseTransaction(parser)
	if err != nil {
		applog.FromContext(ctx).DebugContext(ctx, "Transaction rejected", "error", err, "json", parser.IsJSON())
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}

	if err := s.service.Record(ctx, t); err != nil {
		if isValidationError(err) {
			UnprocessableEntityError(validationMessage(err)).Write(w)
			return
		}
		s.structured.LogError(ctx, "Transaction append failed", err, applog.ComponentTransaction, applog.OpAppend,
			applog.NewFields().WithTransaction(t.Date.String(), core.FormatAmount(t.Amount), t.Category.String()))
		InternalServerError("failed to save transaction").Write(w)
		return
	}

	s.structured.LogTransactionRecorded(ctx, t.Date.String(), core.FormatAmount(t.Amount), t.Category.String())
	NewResponse().Status(http.StatusCreated).JSON(newTransactionDTO(t)).Write(w)
}

func (s *Server) handleViewTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := ParseRangeParams(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	v, err := s.service.View(ctx, params.Start, params.End)
	if err != nil {
		s.structured.LogError(ctx, "Transaction query failed", err, applog.ComponentTransaction, applog.OpQuery,
			applog.NewFields().WithRange(params.Start, params.End))
		InternalServerError("failed to query transactions").Write(w)
		return
	}

	NewResponse().JSON(newViewDTO(params.Start, params.End, v)).Write(w)
}

// handleAllTransactions lists every stored row, including rows whose date
// does not parse.
func (s *Server) handleAllTransactions(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()

	records, err := s.service.All(ctx)
	if err != nil {
		s.structured.LogError(ctx, "Transaction read failed", err, applog.ComponentStorage, applog.OpRead, nil)
		InternalServerError("failed to read transactions").Write(w)
		return
	}

	out := make([]TransactionDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, newRecordDTO(rec))
	}
	NewResponse().JSON(out).Write(w)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.handleExport(w, r, "xlsx", export.ContentTypeXLSX)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.handleExport(w, r, "csv", export.ContentTypeCSV)
}

// handleExport renders into a buffer first so a failure can still be
// reported with a proper status.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, ext, contentType string) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()

	params, err := ParseRangeParams(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	v, err := s.service.View(ctx, params.Start, params.End)
	if err != nil {
		s.structured.LogError(ctx, "Export query failed", err, applog.ComponentExport, applog.OpQuery,
			applog.NewFields().WithRange(params.Start, params.End))
		InternalServerError("failed to query transactions").Write(w)
		return
	}

	var buf bytes.Buffer
	switch ext {
	case "xlsx":
		err = export.WriteXLSX(&buf, v)
	default:
		err = export.WriteCSV(&buf, v.Transactions)
	}
	if err != nil {
		s.structured.LogError(ctx, "Export failed", err, applog.ComponentExport, applog.OpExport,
			applog.NewFields().WithRange(params.Start, params.End))
		InternalServerError("failed to export transactions").Write(w)
		return
	}

	filename := fmt.Sprintf("transactions_%s.%s", time.Now().Format("20060102"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrNegativeAmount) ||
		errors.Is(err, core.ErrUnknownCategory)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		return "invalid date: use DD-MM-YYYY"
	case errors.Is(err, core.ErrNegativeAmount):
		return "amount cannot be negative"
	case errors.Is(err, core.ErrInvalidAmount):
		return "invalid amount"
	case errors.Is(err, core.ErrUnknownCategory):
		return "category must be Income or Expense"
	default:
		return err.Error()
	}
}
