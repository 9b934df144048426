package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"samplemeta/adapters/roster"
	"samplemeta/domain/core"
	"samplemeta/domain/experiment"
	"samplemeta/domain/subject"
	apperrors "samplemeta/internal/errors"
	"samplemeta/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedExperiment() *experiment.Experiment {
	return experiment.New(experiment.NewDescriptor("Study", "lab", "", "Placebo", "Drug"))
}

func TestExperimentServiceCreate(t *testing.T) {
	repo := new(MockExperimentRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*experiment.Experiment")).Return(nil)
	svc := NewExperimentService(repo)

	exp, err := svc.Create(context.Background(), experiment.NewDescriptor("Study", "", "", "A"))
	require.NoError(t, err)
	assert.NotEmpty(t, exp.ID)
	repo.AssertExpectations(t)

	_, err = svc.Create(context.Background(), experiment.NewDescriptor("", "", "", "A"))
	assert.Equal(t, apperrors.CodeValidationError, apperrors.GetCode(err))
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestExperimentServiceGetNotFound(t *testing.T) {
	repo := new(MockExperimentRepository)
	id := core.ExperimentID(core.NewID())
	repo.On("GetByID", mock.Anything, id).Return(nil, core.ErrExperimentNotFound)

	_, err := NewExperimentService(repo).Get(context.Background(), id)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestExperimentServiceGroupData(t *testing.T) {
	repo := new(MockExperimentRepository)
	exp := storedExperiment()
	data := make(experiment.Data)
	data.Set("Placebo", "Sample ID", "Sex", experiment.TextValue("M"))
	repo.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)
	repo.On("GroupData", mock.Anything, exp.ID).Return(data, nil)

	got, err := NewExperimentService(repo).GroupData(context.Background(), exp.ID)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestTemplateServiceWrite(t *testing.T) {
	repo := new(MockExperimentRepository)
	exp := storedExperiment()
	repo.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)

	var buf bytes.Buffer
	got, err := NewTemplateService(repo, fakeWriter{}).Write(context.Background(), exp.ID, &buf)
	require.NoError(t, err)
	assert.Equal(t, exp, got)
	assert.Equal(t, "workbook:Study", buf.String())

	_, err = NewTemplateService(repo, fakeWriter{err: errors.New("zip")}).Write(context.Background(), exp.ID, &buf)
	assert.Equal(t, apperrors.CodeInternalError, apperrors.GetCode(err))
}

func successImporter() fakeImporter {
	return fakeImporter{result: func(project experiment.Descriptor) *experiment.ImportResult {
		data := make(experiment.Data)
		for i, g := range project.Groups {
			data.Set(g, "Sample ID", "Sex", experiment.TextValue([]string{"M", "F"}[i%2]))
		}
		return experiment.NewImportResult(project, data, nil, experiment.InferIndependentVariables(data, project.Groups))
	}}
}

func TestImportPreviewAndConfirm(t *testing.T) {
	repo := new(MockExperimentRepository)
	exp := storedExperiment()
	repo.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)
	repo.On("SaveImport", mock.Anything, exp.ID, mock.AnythingOfType("*experiment.ImportResult")).Return(nil).Once()

	scratch := session.NewScratchStore(time.Hour)
	svc := NewImportService(repo, successImporter(), scratch)
	sid := core.SessionID("s1")

	preview, err := svc.Preview(context.Background(), sid, exp.ID, strings.NewReader("xlsx"))
	require.NoError(t, err)
	require.True(t, preview.Result.Success())
	require.NotEmpty(t, preview.Token)
	repo.AssertNotCalled(t, "SaveImport", mock.Anything, mock.Anything, mock.Anything)

	confirmed, err := svc.Confirm(context.Background(), sid, preview.Token)
	require.NoError(t, err)
	assert.Equal(t, exp.ID, confirmed.ExperimentID)
	repo.AssertExpectations(t)

	_, err = svc.Confirm(context.Background(), sid, preview.Token)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err), "tokens are single use")
}

func TestImportPreviewFailureIsNotStored(t *testing.T) {
	repo := new(MockExperimentRepository)
	exp := storedExperiment()
	repo.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)

	failing := fakeImporter{result: func(project experiment.Descriptor) *experiment.ImportResult {
		return experiment.NewFailedImport(project, "mismatch", core.ErrSchemaMismatch)
	}}
	scratch := session.NewScratchStore(time.Hour)
	preview, err := NewImportService(repo, failing, scratch).Preview(context.Background(), "s1", exp.ID, strings.NewReader(""))
	require.NoError(t, err)
	assert.False(t, preview.Result.Success())
	assert.Empty(t, preview.Token)
	assert.Equal(t, 0, scratch.Len())
}

func TestImportConfirmKeepsPreviewOnSaveError(t *testing.T) {
	repo := new(MockExperimentRepository)
	exp := storedExperiment()
	repo.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)
	repo.On("SaveImport", mock.Anything, exp.ID, mock.Anything).Return(errors.New("connection reset")).Once()
	repo.On("SaveImport", mock.Anything, exp.ID, mock.Anything).Return(nil).Once()

	svc := NewImportService(repo, successImporter(), session.NewScratchStore(time.Hour))
	preview, err := svc.Preview(context.Background(), "s1", exp.ID, strings.NewReader(""))
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), "s1", preview.Token)
	assert.Equal(t, apperrors.CodeDatabaseError, apperrors.GetCode(err))

	_, err = svc.Confirm(context.Background(), "s1", preview.Token)
	assert.NoError(t, err)
}

func TestImportPreviewUnknownExperiment(t *testing.T) {
	repo := new(MockExperimentRepository)
	id := core.ExperimentID(core.NewID())
	repo.On("GetByID", mock.Anything, id).Return(nil, core.ErrExperimentNotFound)

	_, err := NewImportService(repo, successImporter(), session.NewScratchStore(time.Hour)).
		Preview(context.Background(), "s1", id, strings.NewReader(""))
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}

const rosterCSV = "subject_id,sex\nS1,M\nS2,F\nS3,F\nS4,M\nS5,M\n"

func subjectIDs(records []subject.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i], _ = r.Get("subject_id")
	}
	return out
}

func TestRosterPreviewAndCommit(t *testing.T) {
	exps := new(MockExperimentRepository)
	subs := new(MockSubjectRepository)
	exp := storedExperiment()
	exps.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)
	subs.On("CreateSubjects", mock.Anything, mock.Anything).Return(nil)

	svc := NewRosterService(exps, subs, roster.NewReader("group"), session.NewScratchStore(time.Hour))
	sid := core.SessionID("s1")
	ctx := context.Background()

	result, err := svc.Preview(ctx, sid, exp.ID, strings.NewReader(rosterCSV))
	require.NoError(t, err)
	require.True(t, result.Success())
	assert.Len(t, svc.Pending(sid, exp.ID), 5)

	res, err := svc.Commit(ctx, sid, exp.ID, []int{0, 2}, "Placebo")
	require.NoError(t, err)
	require.Len(t, res.Committed, 2)
	assert.Equal(t, "Placebo", res.Committed[0].Group)
	assert.Equal(t, []string{"S1", "S3"}, subjectIDs([]subject.Record{res.Committed[0].Fields, res.Committed[1].Fields}))
	assert.Equal(t, []string{"S2", "S4", "S5"}, subjectIDs(res.Remaining))

	// indices refer to the list as it is now
	res, err = svc.Commit(ctx, sid, exp.ID, []int{2}, "")
	require.NoError(t, err)
	assert.Equal(t, "", res.Committed[0].Group)
	v, _ := res.Committed[0].Fields.Get("subject_id")
	assert.Equal(t, "S5", v)
	assert.Equal(t, []string{"S2", "S4"}, subjectIDs(svc.Pending(sid, exp.ID)))

	_, err = svc.Commit(ctx, sid, exp.ID, []int{2}, "")
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
	assert.ErrorIs(t, err, core.ErrStaleSelection)

	subs.AssertNumberOfCalls(t, "CreateSubjects", 2)
}

func TestRosterCommitUnknownGroup(t *testing.T) {
	exps := new(MockExperimentRepository)
	subs := new(MockSubjectRepository)
	exp := storedExperiment()
	exps.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)

	svc := NewRosterService(exps, subs, roster.NewReader(""), session.NewScratchStore(time.Hour))
	_, err := svc.Preview(context.Background(), "s1", exp.ID, strings.NewReader(rosterCSV))
	require.NoError(t, err)

	_, err = svc.Commit(context.Background(), "s1", exp.ID, []int{0}, "Vehicle")
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
	subs.AssertNotCalled(t, "CreateSubjects", mock.Anything, mock.Anything)
}

func TestRosterCommitStoreFailureKeepsPending(t *testing.T) {
	exps := new(MockExperimentRepository)
	subs := new(MockSubjectRepository)
	exp := storedExperiment()
	exps.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)
	subs.On("CreateSubjects", mock.Anything, mock.Anything).Return(errors.New("timeout"))

	svc := NewRosterService(exps, subs, roster.NewReader(""), session.NewScratchStore(time.Hour))
	_, err := svc.Preview(context.Background(), "s1", exp.ID, strings.NewReader(rosterCSV))
	require.NoError(t, err)

	_, err = svc.Commit(context.Background(), "s1", exp.ID, []int{0, 1}, "")
	assert.Equal(t, apperrors.CodeDatabaseError, apperrors.GetCode(err))
	assert.Len(t, svc.Pending("s1", exp.ID), 5)
}

func TestRosterPreviewFailure(t *testing.T) {
	exps := new(MockExperimentRepository)
	exp := storedExperiment()
	exps.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)

	svc := NewRosterService(exps, new(MockSubjectRepository), roster.NewReader(""), session.NewScratchStore(time.Hour))
	result, err := svc.Preview(context.Background(), "s1", exp.ID, failingReader{})
	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.Empty(t, svc.Pending("s1", exp.ID))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection closed") }

func TestRosterList(t *testing.T) {
	exps := new(MockExperimentRepository)
	subs := new(MockSubjectRepository)
	exp := storedExperiment()
	stored := subject.Attach(exp.ID, "Drug", []subject.Record{subject.NewRecord([]string{"id"}, []string{"S1"})})
	exps.On("GetByID", mock.Anything, exp.ID).Return(exp, nil)
	subs.On("ListByExperiment", mock.Anything, exp.ID).Return(stored, nil)

	svc := NewRosterService(exps, subs, roster.NewReader(""), session.NewScratchStore(time.Hour))
	got, err := svc.List(context.Background(), exp.ID)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}
