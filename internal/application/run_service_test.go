package application_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsukasaI/fini/internal/adapters/outbound/scanner"
	"github.com/tsukasaI/fini/internal/application"
	"github.com/tsukasaI/fini/internal/domain"
	"github.com/tsukasaI/fini/internal/domain/normalize"
)

func newRunService() *application.RunService {
	return application.NewRunService(scanner.New(nil), nil)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func fileByPath(t *testing.T, r *domain.RunReport, path string) domain.FileReport {
	t.Helper()
	for _, f := range r.Files {
		if f.Path == path {
			return f
		}
	}
	t.Fatalf("no report for %s", path)
	return domain.FileReport{}
}

func TestRun_FixWritesNormalizedContent(t *testing.T) {
	dir := t.TempDir()
	dirty := writeFile(t, dir, "dirty.txt", "a  \r\nb")
	clean := writeFile(t, dir, "clean.txt", "ok\n")

	report, err := newRunService().Run(context.Background(), []string{dir}, application.RunOptions{Config: normalize.DefaultConfig()})
	require.NoError(t, err)

	assert.Equal(t, "a\nb\n", readFile(t, dirty))
	assert.Equal(t, "ok\n", readFile(t, clean))
	assert.Equal(t, domain.StatusFixed, fileByPath(t, report, dirty).Status)
	assert.Equal(t, domain.StatusClean, fileByPath(t, report, clean).Status)
	assert.Equal(t, "fix", report.Mode)
	assert.Equal(t, 2, report.FilesChecked)
	assert.Equal(t, 1, report.FilesFixed)
}

func TestRun_CheckNeverWrites(t *testing.T) {
	dir := t.TempDir()
	dirty := writeFile(t, dir, "dirty.txt", "a  \n")

	report, err := newRunService().Run(context.Background(), []string{dir}, application.RunOptions{Check: true, Config: normalize.DefaultConfig()})
	require.NoError(t, err)

	assert.Equal(t, "a  \n", readFile(t, dirty))
	assert.Equal(t, domain.StatusProblems, fileByPath(t, report, dirty).Status)
	assert.True(t, report.HasProblems())
	assert.Equal(t, "check", report.Mode)
}

func TestRun_CheckFlagsDetectionsOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "todo.go", "// TODO: later\n")

	report, err := newRunService().Run(context.Background(), []string{path}, application.RunOptions{Check: true, Config: normalize.DefaultConfig()})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusProblems, report.Files[0].Status)
}

func TestRun_FixFlagsDetectionsWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "todo.go", "// TODO: later\n")
	before, err := os.Stat(path)
	require.NoError(t, err)

	report, err := newRunService().Run(context.Background(), []string{path}, application.RunOptions{Config: normalize.DefaultConfig()})
	require.NoError(t, err)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	assert.Equal(t, domain.StatusFlagged, report.Files[0].Status)
	assert.Equal(t, 1, report.Warnings)
	assert.Equal(t, 0, report.FilesFixed)
}

func TestRun_SkipsEmptyBinaryAndNonUTF8(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.txt", "")
	binary := writeFile(t, dir, "image.png", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	latin1 := writeFile(t, dir, "latin1.txt", "caf\xe9  \n")

	report, err := newRunService().Run(context.Background(), []string{dir}, application.RunOptions{Config: normalize.DefaultConfig()})
	require.NoError(t, err)

	assert.Equal(t, domain.SkipEmpty, fileByPath(t, report, empty).SkipReason)
	assert.Equal(t, domain.SkipBinary, fileByPath(t, report, binary).SkipReason)
	assert.Equal(t, "image/png", fileByPath(t, report, binary).MIMEType)
	assert.Equal(t, domain.SkipNonUTF8, fileByPath(t, report, latin1).SkipReason)
	assert.Equal(t, "caf\xe9  \n", readFile(t, latin1))
	assert.Equal(t, 3, report.FilesSkipped)
	assert.Equal(t, 0, report.FilesChecked)
}

func TestRun_PreservesFileMode(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "run.sh", "echo hi  \n")
	require.NoError(t, os.Chmod(path, 0o755))

	_, err := newRunService().Run(context.Background(), []string{path}, application.RunOptions{Config: normalize.DefaultConfig()})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	assert.Equal(t, "echo hi\n", readFile(t, path))
}

func TestRun_ManyFilesKeepWalkOrder(t *testing.T) {
	dir := t.TempDir()
	var want []string
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		want = append(want, writeFile(t, dir, name+".txt", name+" \n"))
	}

	report, err := newRunService().Run(context.Background(), []string{dir}, application.RunOptions{Jobs: 3, Config: normalize.DefaultConfig()})
	require.NoError(t, err)

	var got []string
	for _, f := range report.Files {
		got = append(got, f.Path)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 12, report.FilesFixed)
}

type recordingProgress struct {
	total    int
	advanced int
	finished bool
}

func (p *recordingProgress) Start(total int) { p.total = total }
func (p *recordingProgress) Advance(string)  { p.advanced++ }
func (p *recordingProgress) Finish()         { p.finished = true }

func TestRun_ReportsProgress(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a\n")
	writeFile(t, dir, "b.txt", "b\n")
	progress := &recordingProgress{}

	_, err := newRunService().Run(context.Background(), []string{dir}, application.RunOptions{Jobs: 1, Config: normalize.DefaultConfig(), Progress: progress})
	require.NoError(t, err)

	assert.Equal(t, 2, progress.total)
	assert.Equal(t, 2, progress.advanced)
	assert.True(t, progress.finished)
}

func TestRun_MissingPath(t *testing.T) {
	_, err := newRunService().Run(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, application.RunOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collecting files")
}

func TestRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a \n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunService().Run(ctx, []string{dir}, application.RunOptions{Config: normalize.DefaultConfig()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_ExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	kept := writeFile(t, dir, "keep.txt", "x \n")
	writeFile(t, dir, "vendor/lib.txt", "y \n")

	report, err := newRunService().Run(context.Background(), []string{dir}, application.RunOptions{Config: normalize.DefaultConfig(), Exclude: []string{"vendor/**"}})
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	assert.Equal(t, kept, report.Files[0].Path)
}

func TestProcessFile_UnreadableIsError(t *testing.T) {
	svc := newRunService()

	fr := svc.ProcessFile(filepath.Join(t.TempDir(), "gone.txt"), false, normalize.DefaultConfig())

	assert.Equal(t, domain.StatusError, fr.Status)
	assert.Contains(t, fr.Error, "gone.txt")
}

func TestNormalizeReader(t *testing.T) {
	svc := newRunService()

	res, err := svc.NormalizeReader(strings.NewReader("a\r\n\u3000b"), normalize.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "a\n b\n", res.Content)
	assert.True(t, res.HasChanges())

	_, err = svc.NormalizeReader(strings.NewReader("\xff"), normalize.DefaultConfig())
	assert.True(t, errors.Is(err, application.ErrInvalidUTF8))
}
