// Package api defines the JSON messages exchanged by the studyabroad.v1
// services.
package api

import (
	"encoding/json"

	"github.com/gea/studyabroad/internal/estimator"
	"github.com/gea/studyabroad/internal/models"
)

const (
	ProgressServiceName = "studyabroad.v1.ProgressService"
	EstimateServiceName = "studyabroad.v1.EstimateService"
)

type InitializeProgressRequest struct {
	UserID   string `json:"userId" validate:"required"`
	UserName string `json:"userName" validate:"required"`
}

type GetProgressRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// UpdateStageRequest replaces a stage's checklist. CurrentStage is applied
// only when it names a valid stage.
type UpdateStageRequest struct {
	UserID       string                 `json:"userId" validate:"required"`
	Stage        string                 `json:"stage" validate:"stage"`
	Items        []models.ChecklistItem `json:"items"`
	CurrentStage string                 `json:"currentStage,omitempty"`

	rawItems json.RawMessage
}

// UnmarshalJSON keeps the items exactly as received. Items that do not decode
// into a checklist are left nil so that ItemsJSON can report them.
func (r *UpdateStageRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateStageRequest
	var raw struct {
		plain
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = UpdateStageRequest(raw.plain)
	r.rawItems = raw.Items
	if len(raw.Items) > 0 {
		var items []models.ChecklistItem
		if err := json.Unmarshal(raw.Items, &items); err == nil {
			r.Items = items
		}
	}
	return nil
}

// ItemsJSON returns the items document as it arrived on the wire, or the
// encoded Items for a request built in process.
func (r *UpdateStageRequest) ItemsJSON() (json.RawMessage, error) {
	if r.rawItems != nil {
		return r.rawItems, nil
	}
	return json.Marshal(r.Items)
}

// SetItemRequest flips the flags of the item at Path. Nil flags are left
// unchanged.
type SetItemRequest struct {
	UserID     string   `json:"userId" validate:"required"`
	Stage      string   `json:"stage" validate:"stage"`
	Path       []string `json:"path" validate:"min=1,dive,required"`
	Checked    *bool    `json:"checked,omitempty"`
	Applicable *bool    `json:"applicable,omitempty"`
}

type DeselectStageRequest struct {
	UserID string `json:"userId" validate:"required"`
	Stage  string `json:"stage" validate:"stage"`
}

type ResetProgressRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type CompleteProgressRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// ProgressResponse is returned by every ProgressService method.
type ProgressResponse struct {
	Progress *models.ProgressTracking `json:"progress"`
}

// EstimateRequest carries calculator inputs. A nil Inputs selects the
// defaults; fields missing from the JSON keep their default values.
type EstimateRequest struct {
	Inputs *estimator.Inputs `json:"inputs,omitempty"`
}

type EstimateResponse struct {
	Estimate estimator.Estimate `json:"estimate"`
}

type ExportReportRequest struct {
	Inputs *estimator.Inputs `json:"inputs,omitempty"`
}

type ExportReportResponse struct {
	FileName string            `json:"fileName"`
	Content  string            `json:"content"`
	Payload  estimator.Payload `json:"payload"`
}
