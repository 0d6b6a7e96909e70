// internal/workers/counseling/classify-student/handler.go
package classifystudent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "classify-student"

	profileCacheKeyPrefix = "student:classified:"
)

var (
	ErrClassificationFailed = errors.New("STUDENT_CLASSIFICATION_FAILED")
)

type Handler struct {
	config *Config
	redis  *redis.Client
	logger logger.Logger
}

// NewHandler creates the classify-student handler. The Redis client may be
// nil; classification then runs without caching the profile.
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
		h.failJob(client, job, "STUDENT_CLASSIFICATION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	classified := classifyStudent(&input.StudentProfile)
	notes := buildClassificationNotes(&classified)

	h.logger.Info("student classified", map[string]interface{}{
		"studentId":     input.StudentID,
		"region":        classified.Region,
		"academicLevel": classified.AcademicLevel,
		"profileScore":  classified.ProfileScore,
	})

	if input.StudentID != "" && h.redis != nil {
		h.cacheProfile(ctx, input.StudentID, &classified)
	}

	return &Output{
		ClassifiedStudent:   classified,
		ClassificationNotes: notes,
	}, nil
}

// cacheProfile stores the classified profile so the matching stage can
// resolve it by student ID. Cache failures are logged, never fatal.
func (h *Handler) cacheProfile(ctx context.Context, studentID string, classified interface{}) {
	data, err := json.Marshal(classified)
	if err != nil {
		h.logger.Warn("failed to marshal classified profile", map[string]interface{}{
			"studentId": studentID,
			"error":     err,
		})
		return
	}

	if err := h.redis.Set(ctx, profileCacheKeyPrefix+studentID, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("failed to cache classified profile", map[string]interface{}{
			"studentId": studentID,
			"error":     err,
		})
	}
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
