package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	ProgressOutput = io.Discard
	os.Exit(m.Run())
}

func writeEquations(t *testing.T, dir string, n int) []string {
	t.Helper()
	var paths []string
	for i := range n {
		path := filepath.Join(dir, fmt.Sprintf("eq%02d.tt", i))
		content := ""
		// file i holds i+1 equations
		for j := 0; j <= i; j++ {
			content += fmt.Sprintf("F%d = A%d and B\n", j, j)
		}
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func TestProcessPath_Directory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	paths := writeEquations(t, dir, 5)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("A and"), 0o644))

	reports, err := ProcessPath(context.Background(), zap.NewNop(), newEngine(t, nil), dir, ProcessFile)
	require.NoError(t, err)
	require.Len(t, reports, 15)

	// file order, then line order
	i := 0
	for f, path := range paths {
		for line := 1; line <= f+1; line++ {
			assert.Equal(t, path, reports[i].File)
			assert.Equal(t, line, reports[i].Line)
			assert.NoError(t, reports[i].Err)
			i++
		}
	}
}

func TestProcessPath_SingleFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "single.txt")
	require.NoError(t, os.WriteFile(path, []byte("A or B\nnot A\n"), 0o644))

	reports, err := ProcessPath(context.Background(), nil, newEngine(t, nil), path, ProcessFile)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestProcessPath_Missing(t *testing.T) {
	t.Parallel()
	_, err := ProcessPath(context.Background(), nil, newEngine(t, nil), filepath.Join(t.TempDir(), "nope"), ProcessFile)
	assert.Error(t, err)
}

func TestProcessPath_ContextCancellation(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeEquations(t, dir, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := ProcessPath(ctx, nil, newEngine(t, nil), dir, ProcessFile)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)
}

func TestProcessPath_ProcessorError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	paths := writeEquations(t, dir, 3)

	boom := errors.New("boom")
	processor := func(r Runner, path string) ([]Report, error) {
		if path == paths[1] {
			return nil, boom
		}
		return r.Run(path)
	}

	reports, err := ProcessPath(context.Background(), nil, newEngine(t, nil), dir, processor)
	require.NoError(t, err)
	require.Len(t, reports, 1+1+3)
	assert.Equal(t, paths[1], reports[1].File)
	assert.ErrorIs(t, reports[1].Err, boom)
}

func TestProcessFiles(t *testing.T) {
	t.Parallel()
	dirA, dirB := t.TempDir(), t.TempDir()
	writeEquations(t, dirA, 2)
	single := filepath.Join(dirB, "one.bool")
	require.NoError(t, os.WriteFile(single, []byte("X -> Y\n"), 0o644))

	reports, err := ProcessFiles(context.Background(), zap.NewNop(), newEngine(t, nil), []string{dirA, single}, ProcessFile)
	require.NoError(t, err)
	require.Len(t, reports, 4)
	assert.Equal(t, single, reports[3].File)

	_, err = ProcessFiles(context.Background(), nil, newEngine(t, nil), []string{dirA, filepath.Join(dirB, "missing")}, ProcessFile)
	assert.Error(t, err)
}

func TestProcessSources(t *testing.T) {
	t.Parallel()
	sources := [][]byte{
		[]byte("A and B\n"),
		[]byte("# comment only\n"),
		[]byte("A or B\nA xor B\n"),
	}

	reports, err := ProcessSources(context.Background(), nil, newEngine(t, nil), sources, ProcessSource)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	for _, r := range reports {
		assert.Empty(t, r.File)
		assert.NoError(t, r.Err)
	}
}

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(filePath string) ([]Report, error) {
	args := m.Called(filePath)
	return args.Get(0).([]Report), args.Error(1)
}

func (m *mockRunner) RunSource(source []byte) ([]Report, error) {
	args := m.Called(source)
	return args.Get(0).([]Report), args.Error(1)
}

func TestProcessFiles_MockRunner(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	paths := writeEquations(t, dir, 3)

	runner := new(mockRunner)
	runner.On("Run", paths[0]).Return([]Report{{File: paths[0], Line: 1, Result: "A0 and B"}}, nil)
	runner.On("Run", paths[1]).Return([]Report(nil), errors.New("read failed"))
	runner.On("Run", paths[2]).Return([]Report{{File: paths[2], Line: 1}, {File: paths[2], Line: 2}}, nil)

	reports, err := ProcessFiles(context.Background(), zap.NewNop(), runner, []string{dir}, ProcessFile)
	require.NoError(t, err)
	require.Len(t, reports, 4)
	assert.Equal(t, "A0 and B", reports[0].Result)
	assert.Equal(t, paths[1], reports[1].File)
	assert.EqualError(t, reports[1].Err, "read failed")
	assert.Equal(t, 2, reports[3].Line)

	runner.AssertExpectations(t)
	runner.AssertNumberOfCalls(t, "Run", 3)
}

func TestProcessSources_MockRunnerError(t *testing.T) {
	t.Parallel()
	src := []byte("A and\n")

	runner := new(mockRunner)
	runner.On("RunSource", src).Return([]Report(nil), errors.New("broken"))

	reports, err := ProcessSources(context.Background(), nil, runner, [][]byte{src}, ProcessSource)
	assert.EqualError(t, err, "broken")
	assert.Nil(t, reports)
	runner.AssertExpectations(t)
}
