// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing JSON responses
// and the wire shapes of transactions, summaries and series.

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

// ResponseBuilder provides a fluent API for building JSON responses.
type ResponseBuilder struct {
	statusCode int
	payload    any
	headers    map[string]string
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets the value encoded as the response body.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.payload = v
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.payload == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if err := json.NewEncoder(w).Encode(b.payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// ErrorResponse creates a standard JSON error response.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).JSON(errorBody{Error: message})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error response.
func UnprocessableEntityError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError(allowedMethods string) *ResponseBuilder {
	return NewResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods)
}

// TransactionDTO is the wire form of a stored row. Amounts are strings with
// two decimals so no precision is lost in JSON numbers.
type TransactionDTO struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type SummaryDTO struct {
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	NetSavings   string `json:"net_savings"`
}

type PointDTO struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

type SeriesDTO struct {
	Income  []PointDTO `json:"income"`
	Expense []PointDTO `json:"expense"`
}

// ViewDTO answers a range query.
type ViewDTO struct {
	Start        string           `json:"start"`
	End          string           `json:"end"`
	Empty        bool             `json:"empty"`
	Transactions []TransactionDTO `json:"transactions"`
	Summary      SummaryDTO       `json:"summary"`
	Series       SeriesDTO        `json:"series"`
}

func newRecordDTO(r core.Record) TransactionDTO {
	return TransactionDTO{
		Date:        r.Date,
		Amount:      core.FormatAmount(r.Amount),
		Category:    r.Category.String(),
		Description: r.Description,
	}
}

func newTransactionDTO(t core.Transaction) TransactionDTO {
	return newRecordDTO(t.Record())
}

func newPointDTOs(points []core.Point) []PointDTO {
	out := make([]PointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, PointDTO{Date: p.Date.String(), Amount: core.FormatAmount(p.Amount)})
	}
	return out
}

func newViewDTO(start, end string, v services.View) ViewDTO {
	txs := make([]TransactionDTO, 0, len(v.Transactions))
	for _, t := range v.Transactions {
		txs = append(txs, newTransactionDTO(t))
	}
	return ViewDTO{
		Start:        start,
		End:          end,
		Empty:        v.Empty(),
		Transactions: txs,
		Summary: SummaryDTO{
			TotalIncome:  core.FormatAmount(v.Summary.TotalIncome),
			TotalExpense: core.FormatAmount(v.Summary.TotalExpense),
			NetSavings:   core.FormatAmount(v.Summary.NetSavings),
		},
		Series: SeriesDTO{
			Income:  newPointDTOs(v.Series.Income),
			Expense: newPointDTOs(v.Series.Expense),
		},
	}
}
