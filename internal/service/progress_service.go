package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/gea/studyabroad/internal/checklist"
	"github.com/gea/studyabroad/internal/metrics"
	"github.com/gea/studyabroad/internal/models"
	"github.com/gea/studyabroad/internal/storage"
	"github.com/gea/studyabroad/internal/validation"
	"github.com/gea/studyabroad/pkg/api"
	"github.com/gea/studyabroad/pkg/api/apiconnect"
)

var _ apiconnect.ProgressServiceHandler = (*ProgressService)(nil)

// saveAttempts bounds how often a mutation is re-applied after a version
// conflict.
const saveAttempts = 2

// ProgressService implements the Connect ProgressService.
type ProgressService struct {
	store storage.Store
	now   func() time.Time
}

// NewProgressService creates a new ProgressService with the given storage backend.
func NewProgressService(store storage.Store) *ProgressService {
	return &ProgressService{store: store, now: time.Now}
}

// InitializeProgress creates a user's record with the default checklists.
func (s *ProgressService) InitializeProgress(ctx context.Context, req *connect.Request[api.InitializeProgressRequest]) (*connect.Response[api.ProgressResponse], error) {
	slog.Info("InitializeProgress request received", "user_id", req.Msg.UserID)

	if err := validation.Struct(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	p := checklist.New(req.Msg.UserID, req.Msg.UserName, s.now())
	metrics.ProgressRecalculations.Inc()

	if err := s.store.CreateProgress(ctx, p); err != nil {
		slog.Error("InitializeProgress failed", "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}
	metrics.ProgressMutations.WithLabelValues("initialize").Inc()

	slog.Info("Progress initialized", "user_id", p.UserID, "progress_id", p.ID)
	return connect.NewResponse(&api.ProgressResponse{Progress: p}), nil
}

// GetProgress returns a user's record.
func (s *ProgressService) GetProgress(ctx context.Context, req *connect.Request[api.GetProgressRequest]) (*connect.Response[api.ProgressResponse], error) {
	if err := validation.Struct(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	p, err := s.store.GetProgress(ctx, req.Msg.UserID)
	if err != nil {
		slog.Error("GetProgress failed", "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ProgressResponse{Progress: p}), nil
}

// UpdateStage replaces one stage's checklist and recalculates.
func (s *ProgressService) UpdateStage(ctx context.Context, req *connect.Request[api.UpdateStageRequest]) (*connect.Response[api.ProgressResponse], error) {
	slog.Info("UpdateStage request received",
		"user_id", req.Msg.UserID,
		"stage", req.Msg.Stage,
		"items_count", len(req.Msg.Items),
	)

	if err := validation.Struct(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	doc, err := req.Msg.ItemsJSON()
	if err != nil {
		return nil, toConnectError(fmt.Errorf("%w: %v", errInvalid, err))
	}
	items, err := validation.ChecklistItems(doc)
	if err != nil {
		return nil, toConnectError(fmt.Errorf("%w: %v", errInvalid, err))
	}

	stage := models.StageKey(req.Msg.Stage)
	current := models.StageKey(req.Msg.CurrentStage)

	p, err := s.mutate(ctx, req.Msg.UserID, "update_stage", func(p *models.ProgressTracking, now time.Time) error {
		p.Stages.Get(stage).Items = checklist.Clone(items)
		if current.Valid() {
			p.CurrentStage = current
		}
		recalculate(p, now)
		return nil
	})
	if err != nil {
		slog.Error("UpdateStage failed", "user_id", req.Msg.UserID, "stage", stage, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Stage updated",
		"user_id", p.UserID,
		"stage", stage,
		"stage_percentage", p.Stages.Get(stage).Percentage,
		"overall_progress", p.OverallProgress,
	)
	return connect.NewResponse(&api.ProgressResponse{Progress: p}), nil
}

// SetItem changes the flags of a single checklist item.
func (s *ProgressService) SetItem(ctx context.Context, req *connect.Request[api.SetItemRequest]) (*connect.Response[api.ProgressResponse], error) {
	if err := validation.Struct(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Checked == nil && req.Msg.Applicable == nil {
		return nil, toConnectError(fmt.Errorf("%w: checked or applicable is required", errInvalid))
	}

	stage := models.StageKey(req.Msg.Stage)
	p, err := s.mutate(ctx, req.Msg.UserID, "set_item", func(p *models.ProgressTracking, now time.Time) error {
		items := p.Stages.Get(stage).Items
		if req.Msg.Checked != nil {
			if err := checklist.SetChecked(items, req.Msg.Path, *req.Msg.Checked); err != nil {
				return err
			}
		}
		if req.Msg.Applicable != nil {
			if err := checklist.SetApplicable(items, req.Msg.Path, *req.Msg.Applicable); err != nil {
				return err
			}
		}
		recalculate(p, now)
		return nil
	})
	if err != nil {
		slog.Warn("SetItem failed", "user_id", req.Msg.UserID, "stage", stage, "path", req.Msg.Path, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ProgressResponse{Progress: p}), nil
}

// DeselectStage unchecks every item of a stage.
func (s *ProgressService) DeselectStage(ctx context.Context, req *connect.Request[api.DeselectStageRequest]) (*connect.Response[api.ProgressResponse], error) {
	if err := validation.Struct(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	stage := models.StageKey(req.Msg.Stage)
	p, err := s.mutate(ctx, req.Msg.UserID, "deselect_stage", func(p *models.ProgressTracking, now time.Time) error {
		st := p.Stages.Get(stage)
		st.Items = checklist.UncheckAll(st.Items)
		recalculate(p, now)
		return nil
	})
	if err != nil {
		slog.Error("DeselectStage failed", "user_id", req.Msg.UserID, "stage", stage, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ProgressResponse{Progress: p}), nil
}

// ResetProgress restores the default checklists and clears completion.
func (s *ProgressService) ResetProgress(ctx context.Context, req *connect.Request[api.ResetProgressRequest]) (*connect.Response[api.ProgressResponse], error) {
	slog.Info("ResetProgress request received", "user_id", req.Msg.UserID)

	if err := validation.Struct(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	p, err := s.mutate(ctx, req.Msg.UserID, "reset", func(p *models.ProgressTracking, now time.Time) error {
		checklist.Reset(p, now)
		metrics.ProgressRecalculations.Inc()
		return nil
	})
	if err != nil {
		slog.Error("ResetProgress failed", "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ProgressResponse{Progress: p}), nil
}

// CompleteProgress marks the whole journey as finished.
func (s *ProgressService) CompleteProgress(ctx context.Context, req *connect.Request[api.CompleteProgressRequest]) (*connect.Response[api.ProgressResponse], error) {
	slog.Info("CompleteProgress request received", "user_id", req.Msg.UserID)

	if err := validation.Struct(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	p, err := s.mutate(ctx, req.Msg.UserID, "complete", func(p *models.ProgressTracking, now time.Time) error {
		checklist.MarkCompleted(p, now)
		return nil
	})
	if err != nil {
		slog.Error("CompleteProgress failed", "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Progress completed", "user_id", p.UserID, "overall_progress", p.OverallProgress)
	return connect.NewResponse(&api.ProgressResponse{Progress: p}), nil
}

// mutate loads the user's record, applies fn and saves the result. On a
// version conflict fn is re-applied to a freshly loaded record.
func (s *ProgressService) mutate(ctx context.Context, userID, operation string, fn func(*models.ProgressTracking, time.Time) error) (*models.ProgressTracking, error) {
	var err error
	for attempt := 1; attempt <= saveAttempts; attempt++ {
		var p *models.ProgressTracking
		p, err = s.store.GetProgress(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err = fn(p, s.now()); err != nil {
			return nil, err
		}

		err = s.store.SaveProgress(ctx, p)
		if err == nil {
			metrics.ProgressMutations.WithLabelValues(operation).Inc()
			return p, nil
		}
		if !errors.Is(err, storage.ErrConflict) {
			return nil, err
		}
		slog.Warn("Progress save conflicted",
			"user_id", userID,
			"operation", operation,
			"attempt", attempt,
		)
	}
	return nil, err
}

func recalculate(p *models.ProgressTracking, now time.Time) {
	checklist.Recalculate(p, now)
	metrics.ProgressRecalculations.Inc()
}
