package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/waste3d/coursemarket-api/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrolled(t *testing.T, f *fixture, lectures int) (*domain.User, *domain.Course) {
	t.Helper()
	user := f.store.addUser(domain.RoleStudent)
	course := f.store.addCourse(500, lectures)
	require.NoError(t, f.enrollment.VerifyPayment(context.Background(), user.ID, course.ID, f.triple("order_"+user.ID.String(), "pay_"+user.ID.String())))
	return user, course
}

func TestAddProgress_AppendsOnce(t *testing.T) {
	f := newFixture()
	user, course := enrolled(t, f, 4)
	lectures := f.store.lectureIDs(course.ID)
	ctx := context.Background()

	added, err := f.progress.AddProgress(ctx, user.ID, course.ID, lectures[0])
	require.NoError(t, err)
	assert.True(t, added)

	added, err = f.progress.AddProgress(ctx, user.ID, course.ID, lectures[0])
	require.NoError(t, err)
	assert.False(t, added)

	added, err = f.progress.AddProgress(ctx, user.ID, course.ID, lectures[1])
	require.NoError(t, err)
	assert.True(t, added)

	p, err := progressStore{f.store}.Get(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, lectures[:2], []string(p.CompletedLectures))
}

func TestAddProgress_NoRecord(t *testing.T) {
	f := newFixture()
	user := f.store.addUser(domain.RoleStudent)
	course := f.store.addCourse(500, 2)

	_, err := f.progress.AddProgress(context.Background(), user.ID, course.ID, f.store.lectureIDs(course.ID)[0])
	requireKind(t, err, domain.ErrNotFound, MsgProgressNotFound)
}

func TestAddProgress_RejectsUnknownLectures(t *testing.T) {
	f := newFixture()
	user, course := enrolled(t, f, 1)
	other := f.store.addCourse(300, 2)
	ctx := context.Background()

	_, err := f.progress.AddProgress(ctx, user.ID, course.ID, f.store.lectureIDs(other.ID)[0])
	requireKind(t, err, domain.ErrValidation, MsgForeignLecture)

	_, err = f.progress.AddProgress(ctx, user.ID, course.ID, uuid.NewString())
	requireKind(t, err, domain.ErrNotFound, MsgLectureNotFound)

	_, err = f.progress.AddProgress(ctx, user.ID, course.ID, "not-a-lecture")
	requireKind(t, err, domain.ErrValidation, MsgInvalidLecture)

	report, err := f.progress.GetProgress(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Completed)
	assert.Equal(t, float64(0), report.Percentage)

	_, err = f.progress.AddProgress(ctx, user.ID, course.ID, f.store.lectureIDs(course.ID)[0])
	require.NoError(t, err)

	report, err = f.progress.GetProgress(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(100), report.Percentage)
}

type failingProgress struct{}

func (failingProgress) Get(ctx context.Context, userID, courseID uuid.UUID) (*domain.Progress, error) {
	return nil, errStorage
}

func (failingProgress) AppendLecture(ctx context.Context, userID, courseID uuid.UUID, lectureID string) (bool, error) {
	return false, errStorage
}

func TestAddProgress_StorageError(t *testing.T) {
	uc := NewProgressUseCase(failingProgress{}, nil, nil, quietLogger())

	_, err := uc.AddProgress(context.Background(), uuid.New(), uuid.New(), uuid.NewString())
	require.ErrorIs(t, err, errStorage)
	var de *domain.Error
	assert.False(t, errors.As(err, &de))

	_, err = uc.GetProgress(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, errStorage)
}

func TestGetProgress_Percentage(t *testing.T) {
	f := newFixture()
	user, course := enrolled(t, f, 4)
	ctx := context.Background()

	report, err := f.progress.GetProgress(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), report.Percentage)
	assert.Equal(t, int64(4), report.Total)

	for _, l := range f.store.lectureIDs(course.ID)[:3] {
		_, err := f.progress.AddProgress(ctx, user.ID, course.ID, l)
		require.NoError(t, err)
	}

	report, err = f.progress.GetProgress(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(75), report.Percentage)
	assert.Equal(t, 3, report.Completed)
	assert.Equal(t, int64(4), report.Total)
	assert.Equal(t, course.ID, report.Progress.CourseID)
}

func TestGetProgress_ZeroLectureCourse(t *testing.T) {
	f := newFixture()
	user, course := enrolled(t, f, 0)

	report, err := f.progress.GetProgress(context.Background(), user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), report.Percentage)
	assert.Equal(t, int64(0), report.Total)
}

func TestGetProgress_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.progress.GetProgress(context.Background(), uuid.New(), uuid.New())
	requireKind(t, err, domain.ErrNotFound, MsgNoProgressForCourse)
}
