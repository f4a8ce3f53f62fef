package models

import (
	"encoding/json"
	"time"
)

// Report is a citizen-submitted municipal issue
type Report struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	Municipality string    `json:"municipality"`
	Status       Status    `json:"status"`
	SubmittedBy  string    `json:"submittedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	AdminNote    string    `json:"adminNote"`
	ImageURL     string    `json:"imageUrl,omitempty"`
}

// UnmarshalJSON accepts the older record shape that used "date" for the creation time
// and "note" for the admin note.
func (r *Report) UnmarshalJSON(data []byte) error {
	type plain Report
	aux := struct {
		*plain
		Date string `json:"date"`
		Note string `json:"note"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if r.CreatedAt.IsZero() && aux.Date != "" {
		if t, err := time.Parse(time.RFC3339, aux.Date); err == nil {
			r.CreatedAt = t
		}
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	if r.AdminNote == "" {
		r.AdminNote = aux.Note
	}
	if !r.Status.Valid() {
		r.Status = StatusSubmitted
	}
	return nil
}

// ReportInput holds the user-supplied fields of a new report
type ReportInput struct {
	Title        string `json:"title" conform:"trim" validate:"required"`
	Category     string `json:"category" conform:"trim" validate:"required"`
	Description  string `json:"description" conform:"trim" validate:"required"`
	Location     string `json:"location" conform:"trim" validate:"required"`
	Address      string `json:"address" conform:"trim"`
	City         string `json:"city" conform:"trim"`
	Municipality string `json:"municipality" conform:"trim" validate:"required"`
	ImageURL     string `json:"imageUrl" conform:"trim" validate:"omitempty,uri"`
	SubmittedBy  string `json:"-"`
}

// Validate trims and checks the fields a citizen must fill in
func (in *ReportInput) Validate() error {
	return ValidateStruct(in)
}

// ReportPatch lists the fields an administrator may change. Nil fields are left alone.
type ReportPatch struct {
	Status    *Status
	AdminNote *string
}

// UpdateReportRequest is the wire form of a ReportPatch
type UpdateReportRequest struct {
	Status    *string `json:"status"`
	AdminNote *string `json:"adminNote"`
}

// ToPatch normalizes the requested status. ok is false when the status is not recognized.
func (req *UpdateReportRequest) ToPatch() (patch *ReportPatch, ok bool) {
	patch = &ReportPatch{AdminNote: req.AdminNote}
	if req.Status != nil {
		status, valid := ParseStatus(*req.Status)
		if !valid {
			return nil, false
		}
		patch.Status = &status
	}
	return patch, true
}

// ReportFilter combines the admin list filters; empty fields match everything
type ReportFilter struct {
	Query        string `form:"q"`
	Category     string `form:"category"`
	Municipality string `form:"municipality"`
	Status       string `form:"status"`
	SubmittedBy  string `form:"submitted_by"`
}

// StatusCounts feeds the dashboards
type StatusCounts struct {
	Total      int `json:"total"`
	Submitted  int `json:"submitted"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Rejected   int `json:"rejected"`
}

// Add counts one report with the given status
func (c *StatusCounts) Add(s Status) {
	c.Total++
	switch s {
	case StatusSubmitted:
		c.Submitted++
	case StatusInProgress:
		c.InProgress++
	case StatusResolved:
		c.Resolved++
	case StatusRejected:
		c.Rejected++
	}
}
