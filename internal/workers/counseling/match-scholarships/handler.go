// internal/workers/counseling/match-scholarships/handler.go
package matchscholarships

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
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "match-scholarships"

	profileCacheKeyPrefix = "student:classified:"

	missingProfileSummary = "No student profile available for matching. Run classification first or supply a profile."
)

var (
	ErrMatchingFailed = errors.New("SCHOLARSHIP_MATCHING_FAILED")
)

type Handler struct {
	config *Config
	redis  *redis.Client
	logger logger.Logger
}

// NewHandler creates the match-scholarships handler. The Redis client may be
// nil; profiles must then arrive inline.
func NewHandler(config *Config, redisClient *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		redis:  redisClient,
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
		h.failJob(client, job, "SCHOLARSHIP_MATCHING_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	student := input.StudentProfile
	if student == nil && input.StudentID != "" {
		student = h.getCachedProfile(ctx, input.StudentID)
	}

	// A missing or malformed profile is a caller-contract problem, not a
	// worker failure: the flow gets an empty result it can narrate.
	if student == nil {
		return &Output{
			MatchedScholarships: []models.MatchedScholarship{},
			BestMatches:         []models.MatchedScholarship{},
			MatchingSummary:     missingProfileSummary,
		}, nil
	}

	if result, err := validation.ValidateStudentProfile(student); err != nil || !result.Valid {
		fields := map[string]interface{}{"studentId": input.StudentID}
		if err != nil {
			fields["error"] = err
		} else {
			fields["violations"] = result.Errors
		}
		h.logger.Warn("student profile failed validation", fields)

		return &Output{
			MatchedScholarships: []models.MatchedScholarship{},
			BestMatches:         []models.MatchedScholarship{},
			MatchingSummary:     missingProfileSummary,
		}, nil
	}

	matched := make([]models.MatchedScholarship, 0, len(input.AvailableScholarships))
	for _, scholarship := range input.AvailableScholarships {
		result, ok := analyzeMatch(student, scholarship)
		if !ok {
			continue
		}
		metrics.MatchScores.Observe(result.MatchScore)
		matched = append(matched, result)
	}

	rankMatches(matched)

	best := matched
	if len(best) > 3 {
		best = best[:3]
	}

	h.logger.Info("scholarship matching completed", map[string]interface{}{
		"studentId":    input.StudentID,
		"scholarships": len(input.AvailableScholarships),
		"matches":      len(matched),
	})

	return &Output{
		MatchedScholarships: matched,
		TotalMatches:        len(matched),
		BestMatches:         best,
		MatchingSummary:     buildMatchingSummary(matched),
	}, nil
}

// getCachedProfile resolves a classified profile written by the
// classification stage. Any cache problem degrades to "no profile".
func (h *Handler) getCachedProfile(ctx context.Context, studentID string) map[string]interface{} {
	if h.redis == nil {
		return nil
	}

	val, err := h.redis.Get(ctx, profileCacheKeyPrefix+studentID).Result()
	if err != nil {
		h.logger.Warn("failed to fetch classified profile from cache", map[string]interface{}{
			"studentId": studentID,
			"error":     err,
		})
		return nil
	}

	var profile map[string]interface{}
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		h.logger.Warn("failed to decode cached profile", map[string]interface{}{
			"studentId": studentID,
			"error":     err,
		})
		return nil
	}
	return profile
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
