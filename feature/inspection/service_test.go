package inspection_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"spare-manager/core/database"
	"spare-manager/core/registry"
	"spare-manager/core/sheet"
	"spare-manager/core/storage"
	"spare-manager/core/storage/mocks"
	"spare-manager/feature/inspection"
	"spare-manager/feature/inspection/models"
	"spare-manager/feature/inspection/reconcile"
	"spare-manager/feature/inspection/source"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRegistry(t *testing.T, scheme registry.KeyScheme, seed ...registry.Device) *registry.Registry {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	store := registry.NewGormStore(db, scheme)
	require.NoError(t, store.Migrate(context.Background()))
	reg := registry.New(store, scheme, time.Minute, zap.NewNop())
	require.NoError(t, reg.Save(context.Background(), seed))
	return reg
}

func newService(t *testing.T, reg *registry.Registry, client storage.Client) *inspection.Service {
	t.Helper()
	storageCfg := storage.Config{Bucket: "spares", ReportPrefix: "reports/"}
	cfg := inspection.Config{Concurrency: 2, ReportTitle: "易损件清单", RunTTLMinutes: 60}
	return inspection.NewService(reg, client, storageCfg, cfg, zap.NewNop())
}

func workbook(t *testing.T, name string, rows ...[]any) source.File {
	t.Helper()
	all := append([][]any{{"ERP编号", "物料描述"}}, rows...)
	data, err := sheet.Write(sheet.Table{NoHeader: true, Rows: all})
	require.NoError(t, err)
	return source.MemoryFile{FileName: name, Data: data}
}

var pump = registry.Device{
	MaterialID: "M1",
	Model:      registry.ModelSystem,
	SpareCount: 5,
	Unit:       "pcs",
	Status:     registry.StatusWhitelisted,
}

func TestService_MatchedWhitelistedRow(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, newRegistry(t, registry.SchemeComposite, pump), nil)

	run, err := svc.Process(ctx, []source.File{workbook(t, "AP-list.xlsx", []any{"M1", "Pump"})})
	require.NoError(t, err)

	assert.Empty(t, run.State.Candidates)
	assert.Equal(t, []models.Entry{{
		ErpCode:     "M1",
		Description: "Pump",
		SpareCount:  5,
		Unit:        "pcs",
		Model:       registry.ModelSystem,
	}}, run.State.Vulnerable.Entries())
	assert.Equal(t, 1, run.Summary.MatchedWhite)
}

func TestService_UnscopedWhitelistedRowUnderComposite(t *testing.T) {
	ctx := context.Background()
	unscoped := registry.Device{MaterialID: "M1", Description: "Pump", SpareCount: 5, Unit: "pcs", Status: registry.StatusWhitelisted}
	svc := newService(t, newRegistry(t, registry.SchemeComposite, unscoped), nil)

	run, err := svc.Process(ctx, []source.File{workbook(t, "AP-list.xlsx", []any{"M1", "Pump"})})
	require.NoError(t, err)

	assert.Empty(t, run.State.Candidates)
	assert.Equal(t, 1, run.Summary.MatchedWhite)
	assert.Equal(t, 0, run.Summary.MatchedBlack)
	assert.Equal(t, []models.Entry{{
		ErpCode:     "M1",
		Description: "Pump",
		SpareCount:  5,
		Unit:        "pcs",
		Model:       registry.ModelSystem,
	}}, run.State.Vulnerable.Entries())
}

func TestService_UnknownRowConfirmed(t *testing.T) {
	ctx := context.Background()
	reg := newRegistry(t, registry.SchemeComposite, pump)
	svc := newService(t, reg, nil)

	run, err := svc.Process(ctx, []source.File{workbook(t, "AP-list.xlsx", []any{"M2", "Valve"})})
	require.NoError(t, err)
	require.Equal(t, []models.Candidate{
		models.NewCandidate("M2", registry.ModelSystem, "Valve", ""),
	}, run.State.Candidates)

	run, err = svc.Confirm(ctx, run.ID, []reconcile.Decision{{SpareCount: 3, Unit: "pcs", IsVulnerable: true}})
	require.NoError(t, err)
	assert.True(t, run.State.Confirmed)
	require.Equal(t, 1, run.State.Vulnerable.Len())
	assert.Equal(t, "M2", run.State.Vulnerable.Entries()[0].ErpCode)

	stored, err := reg.Get(ctx, "M2", registry.ModelSystem)
	require.NoError(t, err)
	assert.Equal(t, registry.StatusWhitelisted, stored.Status)
	assert.Equal(t, 3, stored.SpareCount)
	assert.Equal(t, "Valve", stored.Description)

	// The next run sees the new record.
	next, err := svc.Process(ctx, []source.File{workbook(t, "AP-list.xlsx", []any{"M2", "Valve"})})
	require.NoError(t, err)
	assert.Empty(t, next.State.Candidates)
	assert.Equal(t, 1, next.Summary.MatchedWhite)
}

func TestService_BlacklistedNeverSurfaces(t *testing.T) {
	ctx := context.Background()
	black := registry.Device{MaterialID: "M3", Model: registry.ModelPress, Status: registry.StatusBlacklisted}
	svc := newService(t, newRegistry(t, registry.SchemeComposite, black), nil)

	files := []source.File{
		workbook(t, "砖机.xlsx", []any{"M3", "Bolt"}),
		workbook(t, "运输车.xlsx", []any{"M3", "Bolt"}),
		workbook(t, "misc.xlsx", []any{"M3", "Bolt"}),
	}
	run, err := svc.Process(ctx, files)
	require.NoError(t, err)

	assert.Empty(t, run.State.Candidates)
	assert.Zero(t, run.State.Vulnerable.Len())
	assert.Equal(t, 3, run.Summary.MatchedBlack)
}

func TestService_SameDeviceInTwoFilesReportedOnce(t *testing.T) {
	ctx := context.Background()
	for _, scheme := range []registry.KeyScheme{registry.SchemeComposite, registry.SchemeSingle} {
		t.Run(string(scheme), func(t *testing.T) {
			svc := newService(t, newRegistry(t, scheme, pump), nil)

			run, err := svc.Process(ctx, []source.File{
				workbook(t, "AP-1.xlsx", []any{"M1", "Pump"}),
				workbook(t, "AP-2.xlsx", []any{"M1", "Pump"}),
			})
			require.NoError(t, err)
			assert.Equal(t, 1, run.State.Vulnerable.Len())

			data, err := svc.Report(run.ID)
			require.NoError(t, err)
			grid, err := sheet.Parse(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 3, grid.Rows(), "title, header and one entry")
		})
	}
}

func TestService_ConfirmFailureKeepsRunPending(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, newRegistry(t, registry.SchemeComposite), nil)

	run, err := svc.Process(ctx, []source.File{workbook(t, "AP.xlsx", []any{"M2", "Valve"})})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, run.ID, []reconcile.Decision{{IsVulnerable: true, Unit: "pcs"}})
	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Row)
	assert.Equal(t, "spareCount", verr.Field)

	_, err = svc.Confirm(ctx, run.ID, nil)
	assert.ErrorIs(t, err, reconcile.ErrDecisionCount)

	got, err := svc.Get(run.ID)
	require.NoError(t, err)
	assert.False(t, got.State.Confirmed)
	assert.Len(t, got.State.Candidates, 1)
}

func TestService_UnknownRun(t *testing.T) {
	svc := newService(t, newRegistry(t, registry.SchemeComposite), nil)

	_, err := svc.Get("missing")
	assert.ErrorIs(t, err, inspection.ErrRunNotFound)
	_, err = svc.Confirm(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, inspection.ErrRunNotFound)
	_, err = svc.Report("missing")
	assert.ErrorIs(t, err, inspection.ErrRunNotFound)
	assert.ErrorIs(t, svc.Discard("missing"), inspection.ErrRunNotFound)
}

func TestService_PublishAndBucketInput(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	svc := newService(t, newRegistry(t, registry.SchemeComposite, pump), client)

	data, err := sheet.Write(sheet.Table{NoHeader: true, Rows: [][]any{{"ERP编号", "物料描述"}, {"M1", "Pump"}}})
	require.NoError(t, err)

	client.On("ListObjects", mock.Anything, "spares", mock.Anything).
		Return(func(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
			ch := make(chan minio.ObjectInfo, 2)
			ch <- minio.ObjectInfo{Key: opts.Prefix + "AP.xlsx"}
			ch <- minio.ObjectInfo{Key: opts.Prefix + "notes.txt"}
			close(ch)
			return ch
		})
	client.On("GetObject", mock.Anything, "spares", "inbox/AP.xlsx", mock.Anything).
		Return(io.NopCloser(bytes.NewReader(data)), nil)

	run, err := svc.ProcessBucket(ctx, "inbox/")
	require.NoError(t, err)
	assert.Equal(t, 1, run.Summary.TotalFiles)
	assert.Equal(t, 1, run.State.Vulnerable.Len())

	client.On("BucketExists", mock.Anything, "spares").Return(true, nil)
	client.On("PutObject", mock.Anything, "spares", "reports/out.xlsx", mock.Anything, int64(3), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	object, err := svc.Publish(ctx, "out.xlsx", []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, "reports/out.xlsx", object)
	client.AssertExpectations(t)
}

func TestService_PublishWithoutStorage(t *testing.T) {
	svc := newService(t, newRegistry(t, registry.SchemeComposite), nil)

	_, err := svc.Publish(context.Background(), "out.xlsx", nil)
	assert.True(t, errors.Is(err, inspection.ErrStorageDisabled))
	_, err = svc.ProcessBucket(context.Background(), "")
	assert.ErrorIs(t, err, inspection.ErrStorageDisabled)
}
