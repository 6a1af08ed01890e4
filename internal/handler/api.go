package handler

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Request and response bodies for the endpoints described in spec/openapi.yaml.
// Field names follow the JSON property names in that document.

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorDetail defines model for ErrorDetail.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// Tag defines model for Tag.
type Tag struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TagRequest is the body of POST /tags and PUT /tags/{id}.
// An empty color selects the default.
type TagRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

// Period defines model for Period.
type Period struct {
	Id        string             `json:"id"`
	TagId     string             `json:"tagId"`
	TagName   string             `json:"tagName"`
	TagColor  string             `json:"tagColor"`
	StartDate openapi_types.Date `json:"startDate"`
	EndDate   openapi_types.Date `json:"endDate"`
}

// PeriodRequest is the body of POST /periods and PUT /periods/{id}.
type PeriodRequest struct {
	TagId     string             `json:"tagId"`
	StartDate openapi_types.Date `json:"startDate"`
	EndDate   openapi_types.Date `json:"endDate"`
}

// Pagination defines model for Pagination.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// PeriodList defines model for PeriodList.
type PeriodList struct {
	Data       []Period   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// MarkEntry defines model for MarkEntry.
type MarkEntry struct {
	TagId    string  `json:"tagId"`
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	PeriodId *string `json:"periodId,omitempty"`
}

// MarkRequest is the body of POST /marks.
type MarkRequest struct {
	Date  openapi_types.Date `json:"date"`
	TagId string             `json:"tagId"`
}

// DayMarks defines model for DayMarks: the entries marking one date.
type DayMarks struct {
	Date    openapi_types.Date `json:"date"`
	Entries []MarkEntry        `json:"entries"`
}

// Settings defines model for Settings.
type Settings struct {
	StartMonth        string `json:"startMonth"`
	MonthsCount       int    `json:"monthsCount"`
	HighlightWeekends bool   `json:"highlightWeekends"`
	WeekendColor      string `json:"weekendColor"`
}
