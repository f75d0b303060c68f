package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/gea/studyabroad/internal/estimator"
	"github.com/gea/studyabroad/internal/report"
	"github.com/gea/studyabroad/pkg/api"
	"github.com/gea/studyabroad/pkg/api/apiconnect"
)

func setupEstimateTestServer(t *testing.T) apiconnect.EstimateServiceClient {
	t.Helper()

	svc := NewEstimateService()
	svc.now = func() time.Time { return testNow }

	path, handler := apiconnect.NewEstimateServiceHandler(svc)
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return apiconnect.NewEstimateServiceClient(http.DefaultClient, server.URL)
}

func TestEstimate_Defaults(t *testing.T) {
	client := setupEstimateTestServer(t)

	resp, err := client.Estimate(context.Background(), connect.NewRequest(&api.EstimateRequest{}))
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	want := estimator.Calculate(estimator.DefaultInputs())
	got := resp.Msg.Estimate
	if got.Total != want.Total {
		t.Errorf("total = %v, want %v", got.Total, want.Total)
	}
	if got.Subtotals[estimator.CategoryGS] != want.Subtotals[estimator.CategoryGS] {
		t.Errorf("gs subtotal = %v, want %v", got.Subtotals[estimator.CategoryGS], want.Subtotals[estimator.CategoryGS])
	}
	if len(got.Errors) != 0 {
		t.Errorf("unexpected errors: %v", got.Errors)
	}
}

func TestEstimate_ValidationErrorsDoNotBlock(t *testing.T) {
	client := setupEstimateTestServer(t)

	in := estimator.DefaultInputs()
	in.LoanAmount = -1
	in.TuitionFee = 400000

	resp, err := client.Estimate(context.Background(), connect.NewRequest(&api.EstimateRequest{Inputs: &in}))
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	e := resp.Msg.Estimate
	if msg := e.Errors["loanAmount"]; msg == "" {
		t.Errorf("expected loanAmount error, got %v", e.Errors)
	}
	if e.Total <= 400000 {
		t.Errorf("expected total to include tuition, got %v", e.Total)
	}
}

func TestEstimate_LoanCoversTuition(t *testing.T) {
	client := setupEstimateTestServer(t)

	in := estimator.DefaultInputs()
	in.TuitionFee = 500000
	without, err := client.Estimate(context.Background(), connect.NewRequest(&api.EstimateRequest{Inputs: &in}))
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	in.LoanAmount = 1000000
	with, err := client.Estimate(context.Background(), connect.NewRequest(&api.EstimateRequest{Inputs: &in}))
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	if !with.Msg.Estimate.LoanCoversTuition {
		t.Error("expected loan to cover tuition")
	}
	diff := without.Msg.Estimate.Subtotals[estimator.CategoryCOE] - with.Msg.Estimate.Subtotals[estimator.CategoryCOE]
	if diff != 515000 {
		t.Errorf("coe difference = %v, want 515000", diff)
	}
}

func TestExportReport(t *testing.T) {
	client := setupEstimateTestServer(t)

	resp, err := client.ExportReport(context.Background(), connect.NewRequest(&api.ExportReportRequest{}))
	if err != nil {
		t.Fatalf("ExportReport failed: %v", err)
	}

	if resp.Msg.FileName != report.FileName {
		t.Errorf("file name = %q, want %q", resp.Msg.FileName, report.FileName)
	}
	if !strings.Contains(resp.Msg.Content, "Generated: March 1, 2025") {
		t.Errorf("report missing generation date:\n%s", resp.Msg.Content)
	}
	if _, ok := resp.Msg.Payload["totalCost"]; !ok {
		t.Error("payload missing totalCost")
	}
	if _, ok := resp.Msg.Payload["categoryTotal.visa"]; !ok {
		t.Error("payload missing categoryTotal.visa")
	}
}
