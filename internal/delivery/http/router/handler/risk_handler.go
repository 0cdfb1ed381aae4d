package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"riskctl/internal/delivery/http/response"
	"riskctl/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RiskHandlerParams holds dependencies for RiskHandler, injected by Fx.
type RiskHandlerParams struct {
	fx.In

	ReportUC usecase.ReportUsecase
	QueryUC  usecase.QueryUsecase
	CancelUC usecase.CancelUsecase
	Logger   *slog.Logger
}

// RiskHandler holds dependencies for the risk endpoints
type RiskHandler struct {
	reportUC usecase.ReportUsecase
	queryUC  usecase.QueryUsecase
	cancelUC usecase.CancelUsecase
	logger   *slog.Logger
}

// NewRiskHandler is the constructor for RiskHandler
func NewRiskHandler(params RiskHandlerParams) *RiskHandler {
	return &RiskHandler{
		reportUC: params.ReportUC,
		queryUC:  params.QueryUC,
		cancelUC: params.CancelUC,
		logger:   params.Logger,
	}
}

// ReportRequest represents the request body for reporting a refund event
type ReportRequest struct {
	App          string `json:"app" form:"app"`
	OrderNo      string `json:"order_no" form:"order_no"`
	RefundAmount string `json:"refund_amount" form:"refund_amount"`
	// Pointer so an absent refund_time (1001) is distinguishable from a
	// legitimate epoch-zero timestamp.
	RefundTime     *int64 `json:"refund_time" form:"refund_time" validate:"omitempty,gte=0"`
	PaymentChannel string `json:"payment_channel" form:"payment_channel"`

	AppUID           string `json:"app_uid" form:"app_uid"`
	Nickname         string `json:"nickname" form:"nickname"`
	RegisterTime     int64  `json:"register_time" form:"register_time" validate:"gte=0"`
	RegisterIP       string `json:"register_ip" form:"register_ip"`
	GoogleNickname   string `json:"google_nickname" form:"google_nickname"`
	FacebookNickname string `json:"facebook_nickname" form:"facebook_nickname"`

	Phone              string `json:"phone" form:"phone"`
	PaymentAccount     string `json:"payment_account" form:"payment_account"`
	GoogleID           string `json:"google_id" form:"google_id"`
	FacebookBusinessID string `json:"facebook_business_id" form:"facebook_business_id"`
}

// QueryRequest carries the identifier values for a risk lookup. Accepted as
// query parameters on GET and as a body on POST.
type QueryRequest struct {
	Phone              string `json:"phone" form:"phone" query:"phone"`
	PaymentAccount     string `json:"payment_account" form:"payment_account" query:"payment_account"`
	GoogleID           string `json:"google_id" form:"google_id" query:"google_id"`
	FacebookBusinessID string `json:"facebook_business_id" form:"facebook_business_id" query:"facebook_business_id"`
}

// CancelRequest identifies the refund order to cancel
type CancelRequest struct {
	App     string `json:"app" form:"app"`
	OrderNo string `json:"order_no" form:"order_no"`
}

// Report handles reporting one refund event
func (h *RiskHandler) Report(c echo.Context) error {
	var req ReportRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "invalid report input")
	}

	if field, ok := firstMissing(
		requiredField{"app", req.App},
		requiredField{"order_no", req.OrderNo},
		requiredField{"refund_amount", req.RefundAmount},
		requiredField{"app_uid", req.AppUID},
	); ok {
		return response.MissingParameter(c, field)
	}
	if req.RefundTime == nil {
		return response.MissingParameter(c, "refund_time")
	}

	if err := c.Validate(&req); err != nil {
		return response.BindingError(c, err.Error())
	}

	out, err := h.reportUC.Report(c.Request().Context(), &usecase.ReportInput{
		App:                req.App,
		OrderNo:            req.OrderNo,
		RefundAmount:       req.RefundAmount,
		RefundTime:         *req.RefundTime,
		PaymentChannel:     req.PaymentChannel,
		AppUID:             req.AppUID,
		Nickname:           req.Nickname,
		RegisterTime:       req.RegisterTime,
		RegisterIP:         req.RegisterIP,
		GoogleNickname:     req.GoogleNickname,
		FacebookNickname:   req.FacebookNickname,
		Phone:              req.Phone,
		PaymentAccount:     req.PaymentAccount,
		GoogleID:           req.GoogleID,
		FacebookBusinessID: req.FacebookBusinessID,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, out, "Refund event reported")
}

// Query handles resolving identifiers to an aggregated risk view
func (h *RiskHandler) Query(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "invalid query input")
	}

	if _, ok := firstPresent(
		requiredField{"phone", req.Phone},
		requiredField{"payment_account", req.PaymentAccount},
		requiredField{"google_id", req.GoogleID},
		requiredField{"facebook_business_id", req.FacebookBusinessID},
	); !ok {
		return response.MissingParameter(c, "at least one identifier")
	}

	out, err := h.queryUC.Query(c.Request().Context(), &usecase.QueryInput{
		Phone:              req.Phone,
		PaymentAccount:     req.PaymentAccount,
		GoogleID:           req.GoogleID,
		FacebookBusinessID: req.FacebookBusinessID,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, out, "")
}

// Cancel handles the one-way refund order cancellation
func (h *RiskHandler) Cancel(c echo.Context) error {
	var req CancelRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "invalid cancel input")
	}

	if field, ok := firstMissing(
		requiredField{"app", req.App},
		requiredField{"order_no", req.OrderNo},
	); ok {
		return response.MissingParameter(c, field)
	}

	out, err := h.cancelUC.Cancel(c.Request().Context(), &usecase.CancelInput{
		App:     req.App,
		OrderNo: req.OrderNo,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, out, "Refund order canceled")
}

type requiredField struct {
	name  string
	value string
}

// firstMissing returns the name of the first blank required field.
func firstMissing(fields ...requiredField) (string, bool) {
	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			return field.name, true
		}
	}

	return "", false
}

// firstPresent returns the name of the first non-blank field.
func firstPresent(fields ...requiredField) (string, bool) {
	for _, field := range fields {
		if strings.TrimSpace(field.value) != "" {
			return field.name, true
		}
	}

	return "", false
}
