package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"riskctl/internal/delivery/http/validator"
	domainerrors "riskctl/internal/domain/errors"
	"riskctl/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- usecase stubs ---

type stubReportUC struct {
	out *usecase.ReportOutput
	err error
	got *usecase.ReportInput
}

func (s *stubReportUC) Report(ctx context.Context, input *usecase.ReportInput) (*usecase.ReportOutput, error) {
	s.got = input

	return s.out, s.err
}

type stubQueryUC struct {
	out *usecase.QueryOutput
	err error
	got *usecase.QueryInput
}

func (s *stubQueryUC) Query(ctx context.Context, input *usecase.QueryInput) (*usecase.QueryOutput, error) {
	s.got = input

	return s.out, s.err
}

type stubCancelUC struct {
	out *usecase.CancelOutput
	err error
}

func (s *stubCancelUC) Cancel(ctx context.Context, input *usecase.CancelInput) (*usecase.CancelOutput, error) {
	return s.out, s.err
}

func newTestHandler(report *stubReportUC, query *stubQueryUC, cancel *stubCancelUC) *RiskHandler {
	return NewRiskHandler(RiskHandlerParams{
		ReportUC: report,
		QueryUC:  query,
		CancelUC: cancel,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) domainerrors.Response {
	t.Helper()

	var envelope domainerrors.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	return envelope
}

func TestRiskHandler_Report(t *testing.T) {
	report := &stubReportUC{out: &usecase.ReportOutput{RiskUserID: 7}}
	h := newTestHandler(report, &stubQueryUC{}, &stubCancelUC{})

	body := `{
		"app": "app1",
		"order_no": "O1",
		"refund_amount": "10.00",
		"refund_time": 900,
		"phone": "555",
		"app_uid": "u-1"
	}`
	c, rec := newTestContext(t, http.MethodPost, "/risk/report", body)

	require.NoError(t, h.Report(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.True(t, envelope.Success)

	require.NotNil(t, report.got)
	assert.Equal(t, "app1", report.got.App)
	assert.Equal(t, "O1", report.got.OrderNo)
	assert.Equal(t, "10.00", report.got.RefundAmount)
	assert.Equal(t, int64(900), report.got.RefundTime)
	assert.Equal(t, "555", report.got.Phone)
}

func TestRiskHandler_Report_MissingParameter(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing app", body: `{"order_no":"O1","refund_amount":"10.00","refund_time":900,"app_uid":"u-1"}`},
		{name: "missing order no", body: `{"app":"app1","refund_amount":"10.00","refund_time":900,"app_uid":"u-1"}`},
		{name: "missing refund amount", body: `{"app":"app1","order_no":"O1","refund_time":900,"app_uid":"u-1"}`},
		{name: "missing app uid", body: `{"app":"app1","order_no":"O1","refund_amount":"10.00","refund_time":900}`},
		{name: "missing refund time", body: `{"app":"app1","order_no":"O1","refund_amount":"10.00","app_uid":"u-1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &stubReportUC{}
			h := newTestHandler(report, &stubQueryUC{}, &stubCancelUC{})

			c, rec := newTestContext(t, http.MethodPost, "/risk/report", tt.body)

			require.NoError(t, h.Report(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			envelope := decodeEnvelope(t, rec)
			assert.False(t, envelope.Success)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, domainerrors.CodeMissingParameter, envelope.Error.Code)

			// The usecase is never reached.
			assert.Nil(t, report.got)
		})
	}
}

func TestRiskHandler_Report_AcceptsEpochZeroRefundTime(t *testing.T) {
	report := &stubReportUC{out: &usecase.ReportOutput{RiskUserID: 1}}
	h := newTestHandler(report, &stubQueryUC{}, &stubCancelUC{})

	// Zero is a legitimate timestamp; only an absent refund_time is 1001.
	body := `{"app":"app1","order_no":"O1","refund_amount":"10.00","refund_time":0,"app_uid":"u-1"}`
	c, rec := newTestContext(t, http.MethodPost, "/risk/report", body)

	require.NoError(t, h.Report(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, report.got)
	assert.Equal(t, int64(0), report.got.RefundTime)
}

func TestRiskHandler_Report_UsecaseError(t *testing.T) {
	report := &stubReportUC{err: domainerrors.ErrStorageFailure}
	h := newTestHandler(report, &stubQueryUC{}, &stubCancelUC{})

	body := `{"app":"app1","order_no":"O1","refund_amount":"10.00","refund_time":900,"app_uid":"u-1"}`
	c, rec := newTestContext(t, http.MethodPost, "/risk/report", body)

	require.NoError(t, h.Report(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, domainerrors.CodeStorageFailure, envelope.Error.Code)
}

func TestRiskHandler_Query_GetWithQueryParams(t *testing.T) {
	riskUserID := int64(3)
	query := &stubQueryUC{out: &usecase.QueryOutput{
		IsRisk:            true,
		RiskUserID:        &riskUserID,
		TotalRefundCount:  2,
		TotalRefundAmount: "15.00",
		RefundSummary:     []usecase.AppRefundSummary{},
	}}
	h := newTestHandler(&stubReportUC{}, query, &stubCancelUC{})

	c, rec := newTestContext(t, http.MethodGet, "/risk/query?phone=555&payment_account=pay-1", "")

	require.NoError(t, h.Query(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, query.got)
	assert.Equal(t, "555", query.got.Phone)
	assert.Equal(t, "pay-1", query.got.PaymentAccount)

	envelope := decodeEnvelope(t, rec)
	assert.True(t, envelope.Success)
}

func TestRiskHandler_Query_NoIdentifiers(t *testing.T) {
	query := &stubQueryUC{}
	h := newTestHandler(&stubReportUC{}, query, &stubCancelUC{})

	c, rec := newTestContext(t, http.MethodGet, "/risk/query", "")

	require.NoError(t, h.Query(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, domainerrors.CodeMissingParameter, envelope.Error.Code)
	assert.Nil(t, query.got)
}

func TestRiskHandler_Cancel(t *testing.T) {
	cancel := &stubCancelUC{out: &usecase.CancelOutput{RemainingRefundCount: 1}}
	h := newTestHandler(&stubReportUC{}, &stubQueryUC{}, cancel)

	body := `{"app":"app1","order_no":"O1"}`
	c, rec := newTestContext(t, http.MethodPost, "/risk/cancel", body)

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.True(t, envelope.Success)
}

func TestRiskHandler_Cancel_BusinessErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantHTTP     int
		wantBusiness int
	}{
		{
			name:         "order not found",
			err:          domainerrors.ErrOrderNotFound,
			wantHTTP:     http.StatusNotFound,
			wantBusiness: domainerrors.CodeOrderNotFound,
		},
		{
			name:         "already canceled",
			err:          domainerrors.ErrOrderAlreadyCanceled,
			wantHTTP:     http.StatusConflict,
			wantBusiness: domainerrors.CodeOrderCanceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cancel := &stubCancelUC{err: tt.err}
			h := newTestHandler(&stubReportUC{}, &stubQueryUC{}, cancel)

			body := `{"app":"app1","order_no":"O1"}`
			c, rec := newTestContext(t, http.MethodPost, "/risk/cancel", body)

			require.NoError(t, h.Cancel(c))
			assert.Equal(t, tt.wantHTTP, rec.Code)

			envelope := decodeEnvelope(t, rec)
			assert.False(t, envelope.Success)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBusiness, envelope.Error.Code)
		})
	}
}

func TestRiskHandler_Cancel_MissingParameter(t *testing.T) {
	h := newTestHandler(&stubReportUC{}, &stubQueryUC{}, &stubCancelUC{})

	c, rec := newTestContext(t, http.MethodPost, "/risk/cancel", `{"app":"app1"}`)

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, domainerrors.CodeMissingParameter, envelope.Error.Code)
}
