package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duyktk/exam-archive-service/internal/models"
)

type fakeSubmissionRepo struct {
	submissions map[[2]int]*models.Submission
	nextID      int
	creates     int
	updates     int
	getErr      error
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		submissions: make(map[[2]int]*models.Submission),
		nextID:      1,
	}
}

func (f *fakeSubmissionRepo) GetByExamAndStudent(_ context.Context, examID, studentID int) (*models.Submission, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	sub, ok := f.submissions[[2]int{examID, studentID}]
	if !ok {
		return nil, nil
	}
	copied := *sub
	return &copied, nil
}

func (f *fakeSubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	submission.ID = f.nextID
	f.nextID++
	f.creates++
	copied := *submission
	f.submissions[[2]int{submission.ExamID, submission.StudentID}] = &copied
	return nil
}

func (f *fakeSubmissionRepo) Update(_ context.Context, submission *models.Submission) error {
	f.updates++
	copied := *submission
	f.submissions[[2]int{submission.ExamID, submission.StudentID}] = &copied
	return nil
}

func TestFindOrCreateCreatesWhenAbsent(t *testing.T) {
	repo := newFakeSubmissionRepo()
	resolver := NewSubmissionResolver(repo, zerolog.Nop())

	sub, err := resolver.FindOrCreate(context.Background(), 10, 7, "http://s/f.zip", "anhdlse181818")
	require.NoError(t, err)

	assert.Equal(t, 1, sub.ID)
	assert.Equal(t, 10, sub.ExamID)
	assert.Equal(t, 7, sub.StudentID)
	assert.Equal(t, "http://s/f.zip", sub.FileURL)
	assert.Equal(t, "anhdlse181818", sub.Solution)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 0, repo.updates)
}

func TestFindOrCreateUpdatesChangedFields(t *testing.T) {
	repo := newFakeSubmissionRepo()
	resolver := NewSubmissionResolver(repo, zerolog.Nop())

	first, err := resolver.FindOrCreate(context.Background(), 10, 7, "http://s/v1.zip", "anhdlse181818")
	require.NoError(t, err)

	second, err := resolver.FindOrCreate(context.Background(), 10, 7, "http://s/v2.zip", "anhdlse181818")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-upload must converge on the same row")
	assert.Equal(t, "http://s/v2.zip", second.FileURL)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 1, repo.updates)
}

func TestFindOrCreateSkipsWriteWhenIdentical(t *testing.T) {
	repo := newFakeSubmissionRepo()
	resolver := NewSubmissionResolver(repo, zerolog.Nop())

	first, err := resolver.FindOrCreate(context.Background(), 10, 7, "http://s/f.zip", "anhdlse181818")
	require.NoError(t, err)
	createdAt := first.UpdatedAt

	time.Sleep(time.Millisecond)

	second, err := resolver.FindOrCreate(context.Background(), 10, 7, "http://s/f.zip", "anhdlse181818")
	require.NoError(t, err)

	assert.Equal(t, 0, repo.updates)
	assert.Equal(t, createdAt, second.UpdatedAt, "identical re-upload must not churn updated_at")
}

func TestFindOrCreateIgnoresEmptyFields(t *testing.T) {
	repo := newFakeSubmissionRepo()
	resolver := NewSubmissionResolver(repo, zerolog.Nop())

	_, err := resolver.FindOrCreate(context.Background(), 10, 7, "http://s/f.zip", "anhdlse181818")
	require.NoError(t, err)

	sub, err := resolver.FindOrCreate(context.Background(), 10, 7, "", "")
	require.NoError(t, err)

	assert.Equal(t, "http://s/f.zip", sub.FileURL, "empty values must not clear stored fields")
	assert.Equal(t, "anhdlse181818", sub.Solution)
	assert.Equal(t, 0, repo.updates)
}

func TestFindOrCreatePropagatesLookupError(t *testing.T) {
	repo := newFakeSubmissionRepo()
	repo.getErr = errors.New("connection refused")
	resolver := NewSubmissionResolver(repo, zerolog.Nop())

	_, err := resolver.FindOrCreate(context.Background(), 10, 7, "http://s/f.zip", "x")
	assert.Error(t, err)
}
