package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/gea/studyabroad/internal/estimator"
	"github.com/gea/studyabroad/internal/metrics"
	"github.com/gea/studyabroad/internal/report"
	"github.com/gea/studyabroad/pkg/api"
	"github.com/gea/studyabroad/pkg/api/apiconnect"
)

var _ apiconnect.EstimateServiceHandler = (*EstimateService)(nil)

// EstimateService implements the Connect EstimateService. It is stateless.
type EstimateService struct {
	now func() time.Time
}

// NewEstimateService creates a new EstimateService.
func NewEstimateService() *EstimateService {
	return &EstimateService{now: time.Now}
}

// Estimate computes every cost derivation for the given inputs. Validation
// problems are returned alongside the figures rather than as an error.
func (s *EstimateService) Estimate(ctx context.Context, req *connect.Request[api.EstimateRequest]) (*connect.Response[api.EstimateResponse], error) {
	e := calculate(req.Msg.Inputs)
	return connect.NewResponse(&api.EstimateResponse{Estimate: e}), nil
}

// ExportReport renders the text report together with the flat payload
// used to build it.
func (s *EstimateService) ExportReport(ctx context.Context, req *connect.Request[api.ExportReportRequest]) (*connect.Response[api.ExportReportResponse], error) {
	e := calculate(req.Msg.Inputs)

	content, err := report.String(e, s.now())
	if err != nil {
		slog.Error("ExportReport failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Report exported", "total", e.Total, "bytes", len(content))
	return connect.NewResponse(&api.ExportReportResponse{
		FileName: report.FileName,
		Content:  content,
		Payload:  e.Payload(),
	}), nil
}

func calculate(in *estimator.Inputs) estimator.Estimate {
	inputs := estimator.DefaultInputs()
	if in != nil {
		inputs = *in
	}

	e := estimator.Calculate(inputs)
	metrics.Estimates.WithLabelValues(metrics.LoanLabel(e.LoanCoversTuition)).Inc()
	if len(e.Errors) > 0 {
		for _, field := range e.Errors.Fields() {
			metrics.EstimateValidationErrors.WithLabelValues(field).Inc()
		}
		slog.Debug("Estimate has validation errors", "fields", e.Errors.Fields())
	}
	return e
}
