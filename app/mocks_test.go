package app

import (
	"context"
	"io"

	"samplemeta/domain/core"
	"samplemeta/domain/experiment"
	"samplemeta/domain/subject"

	"github.com/stretchr/testify/mock"
)

// Mock implementations for testing
type MockExperimentRepository struct {
	mock.Mock
}

func (m *MockExperimentRepository) Create(ctx context.Context, exp *experiment.Experiment) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExperimentRepository) GetByID(ctx context.Context, id core.ExperimentID) (*experiment.Experiment, error) {
	args := m.Called(ctx, id)
	exp, _ := args.Get(0).(*experiment.Experiment)
	return exp, args.Error(1)
}

func (m *MockExperimentRepository) SaveImport(ctx context.Context, id core.ExperimentID, result *experiment.ImportResult) error {
	args := m.Called(ctx, id, result)
	return args.Error(0)
}

func (m *MockExperimentRepository) GroupData(ctx context.Context, id core.ExperimentID) (experiment.Data, error) {
	args := m.Called(ctx, id)
	data, _ := args.Get(0).(experiment.Data)
	return data, args.Error(1)
}

type MockSubjectRepository struct {
	mock.Mock
}

func (m *MockSubjectRepository) CreateSubjects(ctx context.Context, subjects []subject.Subject) error {
	args := m.Called(ctx, subjects)
	return args.Error(0)
}

func (m *MockSubjectRepository) ListByExperiment(ctx context.Context, id core.ExperimentID) ([]subject.Subject, error) {
	args := m.Called(ctx, id)
	subjects, _ := args.Get(0).([]subject.Subject)
	return subjects, args.Error(1)
}

// fakeImporter returns a canned result for every workbook
type fakeImporter struct {
	result func(project experiment.Descriptor) *experiment.ImportResult
}

func (f fakeImporter) ImportFile(project experiment.Descriptor, _ string) *experiment.ImportResult {
	return f.result(project)
}

func (f fakeImporter) ImportReader(project experiment.Descriptor, _ io.Reader) *experiment.ImportResult {
	return f.result(project)
}

type fakeWriter struct{ err error }

func (f fakeWriter) Write(w io.Writer, project experiment.Descriptor) error {
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, "workbook:"+project.Name)
	return err
}
