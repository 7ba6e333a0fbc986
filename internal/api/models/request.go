package models

// MergeRequest is the optional body of POST /api/v1/merge
type MergeRequest struct {
	DataDir     string `json:"data_dir,omitempty"`     // subdirectory of the configured data directory
	IncludeRows bool   `json:"include_rows,omitempty"` // default: false
}

// RowsQuery pages through the rows of a stored run
type RowsQuery struct {
	Offset int `form:"offset" binding:"min=0"`
	Limit  int `form:"limit" binding:"min=0,max=10000"` // default: 500
}
