// internal/workers/counseling/analyze-scholarships/handler.go
package analyzescholarships

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "analyze-scholarships"
)

var (
	ErrAnalysisFailed = errors.New("SCHOLARSHIP_ANALYSIS_FAILED")
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	started := time.Now()
	defer func() {
		metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()
		metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(started).Seconds())
	}()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "INPUT_PARSE_FAILED", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "SCHOLARSHIP_ANALYSIS_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	var scholarships []models.ScholarshipRecord

	for _, content := range input.SearchResults {
		if strings.TrimSpace(content) == "" {
			continue
		}

		sections, discarded := splitSections(content, h.config.MinSectionLength)
		if discarded > 0 {
			metrics.SectionsDiscarded.WithLabelValues("too_short").Add(float64(discarded))
		}

		for _, section := range sections {
			record, ok := parseSection(section, input.TargetUniversity, input.TargetField)
			if !ok {
				metrics.SectionsDiscarded.WithLabelValues("no_name").Inc()
				continue
			}
			scholarships = append(scholarships, record)
		}
	}

	scholarships = dedupeScholarships(scholarships)
	metrics.ScholarshipsParsed.Add(float64(len(scholarships)))

	summary := buildAnalysisSummary(scholarships, input.TargetUniversity, input.TargetField)

	h.logger.Info("scholarship analysis completed", map[string]interface{}{
		"targetUniversity": input.TargetUniversity,
		"targetField":      input.TargetField,
		"scholarships":     len(scholarships),
	})

	return &Output{
		Scholarships:           scholarships,
		AnalysisSummary:        summary,
		TotalScholarshipsFound: len(scholarships),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
