package service

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertramos/eco-reporte/internal/model"
	"github.com/vertramos/eco-reporte/internal/queue"
)

type fakeReportStore struct {
	pending bool
	created []model.Report
	nextID  uint64
}

func (s *fakeReportStore) Create(_ context.Context, rep model.Report) (uint64, error) {
	s.nextID++
	s.created = append(s.created, rep)
	return s.nextID, nil
}

func (s *fakeReportStore) HasPending(_ context.Context, _ uint64) (bool, error) {
	return s.pending, nil
}

const testJPEG = "\xff\xd8\xff\xe0fake jpeg bytes\xff\xd9"

func TestReportCreateWritesImageAndPublishes(t *testing.T) {
	store := &fakeReportStore{}
	var published []queue.ReportCreatedEvent
	capture := func(_ context.Context, ev queue.ReportCreatedEvent) error {
		published = append(published, ev)
		return nil
	}
	dir := t.TempDir()
	svc := NewReportService(store, dir, capture)

	photo := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte(testJPEG))
	rep, err := svc.Create(context.Background(), 7, "Basura acumulada en la esquina", photo, -2.17, -79.92)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), rep.ID)
	assert.Equal(t, model.ReportPending, rep.Status)
	require.True(t, strings.HasPrefix(rep.ImageURL, "/storage/usuarios/7/reportes/report_"), rep.ImageURL)
	assert.True(t, strings.HasSuffix(rep.ImageURL, ".jpg"))

	// the decoded bytes landed on disk under the storage dir
	rel := strings.TrimPrefix(rep.ImageURL, "/storage/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, []byte(testJPEG), data)

	require.Len(t, published, 1)
	assert.Equal(t, rep.ID, published[0].ReportID)
	assert.Equal(t, uint64(7), published[0].UserID)
}

func TestReportCreateFoldsFormEncodedSpaces(t *testing.T) {
	store := &fakeReportStore{}
	svc := NewReportService(store, t.TempDir(), nil)

	// '+' mangled into ' ' by form encoding must still decode
	encoded := strings.ReplaceAll(base64.StdEncoding.EncodeToString([]byte(testJPEG)), "+", " ")
	_, err := svc.Create(context.Background(), 1, "d", encoded, 0, 0)
	assert.NoError(t, err)
}

func TestReportCreateRejectsSecondPending(t *testing.T) {
	store := &fakeReportStore{pending: true}
	svc := NewReportService(store, t.TempDir(), nil)

	photo := base64.StdEncoding.EncodeToString([]byte(testJPEG))
	_, err := svc.Create(context.Background(), 1, "d", photo, 0, 0)
	assert.ErrorIs(t, err, ErrPendingReport)
	assert.Empty(t, store.created)
}

func TestReportCreateRejectsBadImage(t *testing.T) {
	store := &fakeReportStore{}
	svc := NewReportService(store, t.TempDir(), nil)

	_, err := svc.Create(context.Background(), 1, "d", "%%%not-base64%%%", 0, 0)
	assert.ErrorIs(t, err, ErrBadImage)
	assert.Empty(t, store.created)
}

func TestReportCreateRejectsEmptyImage(t *testing.T) {
	store := &fakeReportStore{}
	svc := NewReportService(store, t.TempDir(), nil)

	_, err := svc.Create(context.Background(), 1, "d", "", 0, 0)
	assert.ErrorIs(t, err, ErrBadImage)
}

func TestReportCreatePublishFailureDoesNotFailSubmission(t *testing.T) {
	store := &fakeReportStore{}
	broken := func(context.Context, queue.ReportCreatedEvent) error {
		return assert.AnError
	}
	svc := NewReportService(store, t.TempDir(), broken)

	photo := base64.StdEncoding.EncodeToString([]byte(testJPEG))
	rep, err := svc.Create(context.Background(), 1, "d", photo, 0, 0)
	require.NoError(t, err)
	assert.NotZero(t, rep.ID)
}
