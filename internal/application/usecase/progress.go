package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/waste3d/coursemarket-api/internal/domain"

	"github.com/google/uuid"
)

const (
	MsgProgressNotFound    = "Progress not found for the specified course"
	MsgNoProgressForCourse = "No progress found for the specified course"
	MsgAlreadyRecorded     = "Progress already recorded for this lecture"
	MsgProgressAdded       = "New progress added"
	MsgInvalidLecture      = "Invalid lectureId"
	MsgLectureNotFound     = "Lecture not found"
	MsgForeignLecture      = "Lecture does not belong to this course"
)

type ProgressUseCase struct {
	progress ProgressStore
	lectures LectureCounter
	catalog  LectureLookup
	logger   *slog.Logger
}

func NewProgressUseCase(ps ProgressStore, lc LectureCounter, ll LectureLookup, logger *slog.Logger) *ProgressUseCase {
	return &ProgressUseCase{progress: ps, lectures: lc, catalog: ll, logger: logger}
}

// AddProgress отмечает лекцию пройденной. true - лекция добавлена, false - уже была.
func (uc *ProgressUseCase) AddProgress(ctx context.Context, userID, courseID uuid.UUID, lectureID string) (bool, error) {
	progress, err := uc.progress.Get(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// прогресса нет, а лекцию отмечают - значит доступ не выдавался
			uc.logger.Warn("progress record missing", "user_id", userID, "course_id", courseID)
			return false, domain.NewError(domain.ErrNotFound, MsgProgressNotFound)
		}
		return false, fmt.Errorf("load progress: %w", err)
	}

	lectureID, err = uc.checkLecture(ctx, courseID, lectureID)
	if err != nil {
		return false, err
	}

	if progress.HasLecture(lectureID) {
		return false, nil
	}

	added, err := uc.progress.AppendLecture(ctx, userID, courseID, lectureID)
	if err != nil {
		return false, fmt.Errorf("append lecture: %w", err)
	}
	return added, nil
}

// checkLecture - лекция должна существовать и принадлежать курсу, иначе процент уйдет за 100.
// Возвращает id в каноническом виде, чтобы в массиве не было двух записей одной лекции.
func (uc *ProgressUseCase) checkLecture(ctx context.Context, courseID uuid.UUID, lectureID string) (string, error) {
	id, err := uuid.Parse(lectureID)
	if err != nil {
		return "", domain.NewError(domain.ErrValidation, MsgInvalidLecture)
	}
	lecture, err := uc.catalog.GetLecture(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.NewError(domain.ErrNotFound, MsgLectureNotFound)
		}
		return "", fmt.Errorf("load lecture: %w", err)
	}
	if lecture.CourseID != courseID {
		uc.logger.Warn("lecture from another course", "lecture_id", id, "course_id", courseID, "lecture_course_id", lecture.CourseID)
		return "", domain.NewError(domain.ErrValidation, MsgForeignLecture)
	}
	return lecture.ID.String(), nil
}

func (uc *ProgressUseCase) GetProgress(ctx context.Context, userID, courseID uuid.UUID) (*domain.ProgressReport, error) {
	progress, err := uc.progress.Get(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.ErrNotFound, MsgNoProgressForCourse)
		}
		return nil, fmt.Errorf("load progress: %w", err)
	}

	total, err := uc.lectures.CountLectures(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("count lectures: %w", err)
	}

	completed := len(progress.CompletedLectures)
	return &domain.ProgressReport{
		Percentage: domain.Percentage(completed, total),
		Completed:  completed,
		Total:      total,
		Progress:   progress,
	}, nil
}
