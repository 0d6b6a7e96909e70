// internal/workers/counseling/classify-student/models.go
package classifystudent

import "scholarship-workers/internal/models"

type Input struct {
	StudentID      string                `json:"studentId"`
	StudentProfile models.StudentProfile `json:"studentProfile"`
}

type Output struct {
	ClassifiedStudent   models.ClassifiedStudent `json:"classifiedStudent"`
	ClassificationNotes string                   `json:"classificationNotes"`
}
