// internal/workers/counseling/calculate-financials/handler.go
package calculatefinancials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"
	"scholarship-workers/internal/common/validation"
	"scholarship-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "calculate-financials"

var (
	ErrCalculationFailed = errors.New("FINANCIAL_CALCULATION_FAILED")
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
		h.failJob(client, job, "FINANCIAL_CALCULATION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	breakdowns := make([]models.FinancialBreakdown, 0, len(input.MatchedScholarships))

	for _, scholarship := range input.MatchedScholarships {
		result, err := validation.ValidateMatchedScholarship(scholarship)
		if err != nil || !result.Valid {
			fields := map[string]interface{}{
				"scholarship": scholarship["scholarship_name"],
			}
			if err != nil {
				fields["error"] = err
			} else {
				fields["violations"] = result.Errors
			}
			h.logger.Warn("skipping malformed scholarship record", fields)
			metrics.RecordsSkipped.WithLabelValues(TaskType, "invalid_record").Inc()
			continue
		}

		breakdowns = append(breakdowns, calculateBreakdown(scholarship, input.StudentProfile, input.SearchResults))
	}

	rankBreakdowns(breakdowns)

	best := breakdowns
	if len(best) > 3 {
		best = best[:3]
	}

	h.logger.Info("financial calculation completed", map[string]interface{}{
		"scholarships": len(input.MatchedScholarships),
		"breakdowns":   len(breakdowns),
	})

	return &Output{
		FinancialBreakdowns:    breakdowns,
		BestFinancialOptions:   best,
		FinancialSummary:       buildFinancialSummary(breakdowns),
		FundingRecommendations: buildFundingRecommendations(breakdowns, input.StudentProfile),
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
