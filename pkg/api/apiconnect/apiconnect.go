// Package apiconnect wires the studyabroad.v1 services to connect handlers
// and clients using the JSON codec.
package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/gea/studyabroad/pkg/api"
)

// Fully-qualified procedure names.
const (
	ProgressServiceInitializeProgressProcedure = "/" + api.ProgressServiceName + "/InitializeProgress"
	ProgressServiceGetProgressProcedure        = "/" + api.ProgressServiceName + "/GetProgress"
	ProgressServiceUpdateStageProcedure        = "/" + api.ProgressServiceName + "/UpdateStage"
	ProgressServiceSetItemProcedure            = "/" + api.ProgressServiceName + "/SetItem"
	ProgressServiceDeselectStageProcedure      = "/" + api.ProgressServiceName + "/DeselectStage"
	ProgressServiceResetProgressProcedure      = "/" + api.ProgressServiceName + "/ResetProgress"
	ProgressServiceCompleteProgressProcedure   = "/" + api.ProgressServiceName + "/CompleteProgress"

	EstimateServiceEstimateProcedure     = "/" + api.EstimateServiceName + "/Estimate"
	EstimateServiceExportReportProcedure = "/" + api.EstimateServiceName + "/ExportReport"
)

// ProgressServiceHandler is implemented by the progress service.
type ProgressServiceHandler interface {
	InitializeProgress(context.Context, *connect.Request[api.InitializeProgressRequest]) (*connect.Response[api.ProgressResponse], error)
	GetProgress(context.Context, *connect.Request[api.GetProgressRequest]) (*connect.Response[api.ProgressResponse], error)
	UpdateStage(context.Context, *connect.Request[api.UpdateStageRequest]) (*connect.Response[api.ProgressResponse], error)
	SetItem(context.Context, *connect.Request[api.SetItemRequest]) (*connect.Response[api.ProgressResponse], error)
	DeselectStage(context.Context, *connect.Request[api.DeselectStageRequest]) (*connect.Response[api.ProgressResponse], error)
	ResetProgress(context.Context, *connect.Request[api.ResetProgressRequest]) (*connect.Response[api.ProgressResponse], error)
	CompleteProgress(context.Context, *connect.Request[api.CompleteProgressRequest]) (*connect.Response[api.ProgressResponse], error)
}

// EstimateServiceHandler is implemented by the estimate service.
type EstimateServiceHandler interface {
	Estimate(context.Context, *connect.Request[api.EstimateRequest]) (*connect.Response[api.EstimateResponse], error)
	ExportReport(context.Context, *connect.Request[api.ExportReportRequest]) (*connect.Response[api.ExportReportResponse], error)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}

// NewProgressServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewProgressServiceHandler(svc ProgressServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		ProgressServiceInitializeProgressProcedure: connect.NewUnaryHandler(ProgressServiceInitializeProgressProcedure, svc.InitializeProgress, opts...),
		ProgressServiceGetProgressProcedure:        connect.NewUnaryHandler(ProgressServiceGetProgressProcedure, svc.GetProgress, opts...),
		ProgressServiceUpdateStageProcedure:        connect.NewUnaryHandler(ProgressServiceUpdateStageProcedure, svc.UpdateStage, opts...),
		ProgressServiceSetItemProcedure:            connect.NewUnaryHandler(ProgressServiceSetItemProcedure, svc.SetItem, opts...),
		ProgressServiceDeselectStageProcedure:      connect.NewUnaryHandler(ProgressServiceDeselectStageProcedure, svc.DeselectStage, opts...),
		ProgressServiceResetProgressProcedure:      connect.NewUnaryHandler(ProgressServiceResetProgressProcedure, svc.ResetProgress, opts...),
		ProgressServiceCompleteProgressProcedure:   connect.NewUnaryHandler(ProgressServiceCompleteProgressProcedure, svc.CompleteProgress, opts...),
	}
	return "/" + api.ProgressServiceName + "/", route(routes)
}

// NewEstimateServiceHandler builds an HTTP handler from the service
// implementation.
func NewEstimateServiceHandler(svc EstimateServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		EstimateServiceEstimateProcedure:     connect.NewUnaryHandler(EstimateServiceEstimateProcedure, svc.Estimate, opts...),
		EstimateServiceExportReportProcedure: connect.NewUnaryHandler(EstimateServiceExportReportProcedure, svc.ExportReport, opts...),
	}
	return "/" + api.EstimateServiceName + "/", route(routes)
}

func route(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// ProgressServiceClient is a client for the progress service.
type ProgressServiceClient interface {
	InitializeProgress(context.Context, *connect.Request[api.InitializeProgressRequest]) (*connect.Response[api.ProgressResponse], error)
	GetProgress(context.Context, *connect.Request[api.GetProgressRequest]) (*connect.Response[api.ProgressResponse], error)
	UpdateStage(context.Context, *connect.Request[api.UpdateStageRequest]) (*connect.Response[api.ProgressResponse], error)
	SetItem(context.Context, *connect.Request[api.SetItemRequest]) (*connect.Response[api.ProgressResponse], error)
	DeselectStage(context.Context, *connect.Request[api.DeselectStageRequest]) (*connect.Response[api.ProgressResponse], error)
	ResetProgress(context.Context, *connect.Request[api.ResetProgressRequest]) (*connect.Response[api.ProgressResponse], error)
	CompleteProgress(context.Context, *connect.Request[api.CompleteProgressRequest]) (*connect.Response[api.ProgressResponse], error)
}

// NewProgressServiceClient constructs a client for the progress service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewProgressServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ProgressServiceClient {
	opts = clientOptions(opts)
	return &progressServiceClient{
		initializeProgress: connect.NewClient[api.InitializeProgressRequest, api.ProgressResponse](httpClient, baseURL+ProgressServiceInitializeProgressProcedure, opts...),
		getProgress:        connect.NewClient[api.GetProgressRequest, api.ProgressResponse](httpClient, baseURL+ProgressServiceGetProgressProcedure, opts...),
		updateStage:        connect.NewClient[api.UpdateStageRequest, api.ProgressResponse](httpClient, baseURL+ProgressServiceUpdateStageProcedure, opts...),
		setItem:            connect.NewClient[api.SetItemRequest, api.ProgressResponse](httpClient, baseURL+ProgressServiceSetItemProcedure, opts...),
		deselectStage:      connect.NewClient[api.DeselectStageRequest, api.ProgressResponse](httpClient, baseURL+ProgressServiceDeselectStageProcedure, opts...),
		resetProgress:      connect.NewClient[api.ResetProgressRequest, api.ProgressResponse](httpClient, baseURL+ProgressServiceResetProgressProcedure, opts...),
		completeProgress:   connect.NewClient[api.CompleteProgressRequest, api.ProgressResponse](httpClient, baseURL+ProgressServiceCompleteProgressProcedure, opts...),
	}
}

type progressServiceClient struct {
	initializeProgress *connect.Client[api.InitializeProgressRequest, api.ProgressResponse]
	getProgress        *connect.Client[api.GetProgressRequest, api.ProgressResponse]
	updateStage        *connect.Client[api.UpdateStageRequest, api.ProgressResponse]
	setItem            *connect.Client[api.SetItemRequest, api.ProgressResponse]
	deselectStage      *connect.Client[api.DeselectStageRequest, api.ProgressResponse]
	resetProgress      *connect.Client[api.ResetProgressRequest, api.ProgressResponse]
	completeProgress   *connect.Client[api.CompleteProgressRequest, api.ProgressResponse]
}

func (c *progressServiceClient) InitializeProgress(ctx context.Context, req *connect.Request[api.InitializeProgressRequest]) (*connect.Response[api.ProgressResponse], error) {
	return c.initializeProgress.CallUnary(ctx, req)
}

func (c *progressServiceClient) GetProgress(ctx context.Context, req *connect.Request[api.GetProgressRequest]) (*connect.Response[api.ProgressResponse], error) {
	return c.getProgress.CallUnary(ctx, req)
}

func (c *progressServiceClient) UpdateStage(ctx context.Context, req *connect.Request[api.UpdateStageRequest]) (*connect.Response[api.ProgressResponse], error) {
	return c.updateStage.CallUnary(ctx, req)
}

func (c *progressServiceClient) SetItem(ctx context.Context, req *connect.Request[api.SetItemRequest]) (*connect.Response[api.ProgressResponse], error) {
	return c.setItem.CallUnary(ctx, req)
}

func (c *progressServiceClient) DeselectStage(ctx context.Context, req *connect.Request[api.DeselectStageRequest]) (*connect.Response[api.ProgressResponse], error) {
	return c.deselectStage.CallUnary(ctx, req)
}

func (c *progressServiceClient) ResetProgress(ctx context.Context, req *connect.Request[api.ResetProgressRequest]) (*connect.Response[api.ProgressResponse], error) {
	return c.resetProgress.CallUnary(ctx, req)
}

func (c *progressServiceClient) CompleteProgress(ctx context.Context, req *connect.Request[api.CompleteProgressRequest]) (*connect.Response[api.ProgressResponse], error) {
	return c.completeProgress.CallUnary(ctx, req)
}

// EstimateServiceClient is a client for the estimate service.
type EstimateServiceClient interface {
	Estimate(context.Context, *connect.Request[api.EstimateRequest]) (*connect.Response[api.EstimateResponse], error)
	ExportReport(context.Context, *connect.Request[api.ExportReportRequest]) (*connect.Response[api.ExportReportResponse], error)
}

// NewEstimateServiceClient constructs a client for the estimate service.
func NewEstimateServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) EstimateServiceClient {
	opts = clientOptions(opts)
	return &estimateServiceClient{
		estimate:     connect.NewClient[api.EstimateRequest, api.EstimateResponse](httpClient, baseURL+EstimateServiceEstimateProcedure, opts...),
		exportReport: connect.NewClient[api.ExportReportRequest, api.ExportReportResponse](httpClient, baseURL+EstimateServiceExportReportProcedure, opts...),
	}
}

type estimateServiceClient struct {
	estimate     *connect.Client[api.EstimateRequest, api.EstimateResponse]
	exportReport *connect.Client[api.ExportReportRequest, api.ExportReportResponse]
}

func (c *estimateServiceClient) Estimate(ctx context.Context, req *connect.Request[api.EstimateRequest]) (*connect.Response[api.EstimateResponse], error) {
	return c.estimate.CallUnary(ctx, req)
}

func (c *estimateServiceClient) ExportReport(ctx context.Context, req *connect.Request[api.ExportReportRequest]) (*connect.Response[api.ExportReportResponse], error) {
	return c.exportReport.CallUnary(ctx, req)
}
