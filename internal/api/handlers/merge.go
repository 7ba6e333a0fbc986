package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"sync"

	"electricity-dataset/internal/analysis"
	"electricity-dataset/internal/api/models"
	"electricity-dataset/internal/config"
	"electricity-dataset/internal/data"
	"electricity-dataset/internal/metrics"
	"electricity-dataset/internal/model"
	"electricity-dataset/internal/pipeline"

	"github.com/gin-gonic/gin"
)

const defaultRowsLimit = 500

// MergeHandler runs the merge pipeline and serves stored results.
// Only one run executes at a time.
type MergeHandler struct {
	mu    sync.Mutex
	cfg   *config.Config
	rec   *metrics.Recorder
	store *pipeline.RunStore
}

// NewMergeHandler creates a new merge handler
func NewMergeHandler(cfg *config.Config, rec *metrics.Recorder, store *pipeline.RunStore) *MergeHandler {
	return &MergeHandler{cfg: cfg, rec: rec, store: store}
}

// RunMerge handles POST /api/v1/merge
func (h *MergeHandler) RunMerge(c *gin.Context) {
	var req models.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	cfg := *h.cfg
	if req.DataDir != "" {
		dir, err := resolveDataDir(cfg.DataDir, req.DataDir)
		if err != nil {
			invalidDataDir(c, err)
			return
		}
		cfg.DataDir = dir
	}

	h.mu.Lock()
	res, err := pipeline.Run(&cfg, h.rec)
	h.mu.Unlock()
	if err != nil {
		log.Printf("[API] merge failed: %v", err)
		status, body := mergeError(err)
		c.JSON(status, body)
		return
	}

	run := h.store.Put(res)
	resp := buildResponse(run)
	if req.IncludeRows {
		resp.Rows = buildRows(res.Table, 0, len(res.Table.Rows))
	}
	c.JSON(http.StatusOK, resp)
}

// GetRun handles GET /api/v1/merge/:id
func (h *MergeHandler) GetRun(c *gin.Context) {
	run, ok := h.store.Get(c.Param("id"))
	if !ok {
		runNotFound(c)
		return
	}
	c.JSON(http.StatusOK, buildResponse(run))
}

// GetRows handles GET /api/v1/merge/:id/rows
func (h *MergeHandler) GetRows(c *gin.Context) {
	var q models.RowsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultRowsLimit
	}

	run, ok := h.store.Get(c.Param("id"))
	if !ok {
		runNotFound(c)
		return
	}

	t := run.Result.Table
	total := len(t.Rows)
	start := q.Offset
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	c.JSON(http.StatusOK, models.RowsResponse{
		ID:     run.ID,
		Offset: start,
		Limit:  q.Limit,
		Total:  total,
		Rows:   buildRows(t, start, end),
	})
}

func runNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "RUN_NOT_FOUND",
			Message: "no stored run with id " + c.Param("id"),
		},
	})
}

// mergeError maps pipeline errors onto the API error envelope. Input data
// errors are 422, anything else 500.
func mergeError(err error) (int, models.ErrorResponse) {
	var (
		notFound *data.SourceNotFoundError
		noColumn *data.ColumnNotFoundError
		overlap  *data.OverlapError
		format   *data.FormatError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusUnprocessableEntity, errorBody("SOURCE_NOT_FOUND", err, map[string]interface{}{
			"source":  notFound.Source,
			"pattern": notFound.Pattern,
		})
	case errors.As(err, &noColumn):
		return http.StatusUnprocessableEntity, errorBody("COLUMN_NOT_FOUND", err, map[string]interface{}{
			"source":  noColumn.Source,
			"file":    noColumn.File,
			"field":   noColumn.Field,
			"headers": noColumn.Headers,
		})
	case errors.As(err, &overlap):
		return http.StatusUnprocessableEntity, errorBody("LOAD_OVERLAP", err, map[string]interface{}{
			"source": overlap.Source,
			"file":   overlap.File,
			"hours":  overlap.Count,
		})
	case errors.As(err, &format):
		return http.StatusUnprocessableEntity, errorBody("FORMAT_ERROR", err, map[string]interface{}{
			"source": format.Source,
			"file":   format.File,
			"line":   format.Line,
			"column": format.Column,
		})
	default:
		return http.StatusInternalServerError, errorBody("MERGE_ERROR", err, nil)
	}
}

func errorBody(code string, err error, details map[string]interface{}) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
			Details: details,
		},
	}
}

func buildResponse(run *pipeline.StoredRun) models.MergeResponse {
	res := run.Result
	sum := analysis.Summarize(res.Table)

	stats := make([]models.ColumnSummary, 0, len(sum.Columns))
	for _, cs := range sum.Columns {
		stats = append(stats, models.ColumnSummary{
			Column: cs.Column,
			Count:  cs.Count,
			Min:    cs.Min,
			Max:    cs.Max,
			Mean:   cs.Mean,
			P05:    cs.P05,
			P95:    cs.P95,
		})
	}

	return models.MergeResponse{
		ID:     run.ID,
		Status: "completed",
		Summary: models.MergeSummary{
			Rows:              sum.Rows,
			Columns:           res.Table.Columns,
			Window:            models.TimeWindow{Start: sum.StartUTC, End: sum.EndUTC},
			SourceRows:        res.SourceRows,
			InterpolatedCells: res.Stats.InterpolatedCells,
			DroppedRows:       res.Stats.DroppedRows,
			Outputs:           res.Outputs,
			DurationMS:        res.Duration.Milliseconds(),
			CreatedAt:         run.CreatedAt,
			ColumnStats:       stats,
		},
	}
}

func buildRows(t *model.Table, start, end int) []models.Row {
	rows := make([]models.Row, 0, end-start)
	for r := start; r < end; r++ {
		values := make(map[string]float64, len(t.Columns))
		for i, v := range t.Rows[r] {
			if v.Valid {
				values[t.Columns[i]] = v.Float64
			}
		}
		rows = append(rows, models.Row{Datetime: t.Times[r].UTC(), Values: values})
	}
	return rows
}
