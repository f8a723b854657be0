package batch_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"spare-manager/core/registry"
	"spare-manager/core/registry/mocks"
	"spare-manager/core/sheet"
	"spare-manager/feature/inspection/batch"
	"spare-manager/feature/inspection/classify"
	"spare-manager/feature/inspection/extract"
	"spare-manager/feature/inspection/models"
	"spare-manager/feature/inspection/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func workbook(t *testing.T, name string, rows ...[]any) source.File {
	t.Helper()
	data, err := sheet.Write(sheet.Table{NoHeader: true, Rows: rows})
	require.NoError(t, err)
	return source.MemoryFile{FileName: name, Data: data}
}

func header() []any {
	return []any{"ERP编号", "物料描述", "单位"}
}

func newRunner(store registry.Store, scheme registry.KeyScheme, concurrency int) *batch.Runner {
	reg := registry.New(store, scheme, time.Minute, zap.NewNop())
	engine := classify.NewEngine(reg, scheme, zap.NewNop())
	return batch.NewRunner(engine, scheme, concurrency, zap.NewNop())
}

var pump = registry.Device{MaterialID: "M1", Model: registry.ModelSystem, Description: "Pump", SpareCount: 5, Unit: "pcs", Status: registry.StatusWhitelisted}

func TestRunner_DeduplicatesAcrossFiles(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("FindByMaterialIDs", mock.Anything, mock.Anything).Return([]registry.Device{pump}, nil).Maybe()
	store.On("FetchAll", mock.Anything).Return([]registry.Device{pump}, nil)

	files := []source.File{
		workbook(t, "AP-1.xlsx", header(), []any{"M1", "Pump"}, []any{"M9", "Gasket"}),
		workbook(t, "AP-2.xlsx", header(), []any{"M1", "Pump"}, []any{"M9", "Gasket"}),
	}

	res, err := newRunner(store, registry.SchemeComposite, 1).Run(ctx, files)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Vulnerable.Len())
	assert.Equal(t, 1, res.Unknown.Len())
	assert.Equal(t, models.Summary{
		TotalFiles: 2, TotalRows: 4, ExtractedRows: 4,
		MatchedWhite: 2, Unmatched: 2, Unknown: 1, Vulnerable: 1,
	}, res.Summary)
	assert.Equal(t, map[string]int{registry.ModelSystem: 1}, res.ByModel)
}

func TestRunner_SameErpDifferentModels(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("FindByMaterialIDs", mock.Anything, mock.Anything).Return(nil, nil)
	store.On("FetchAll", mock.Anything).Return(nil, nil)

	files := []source.File{
		workbook(t, "砖机.xlsx", header(), []any{"M5", "Seal"}),
		workbook(t, "摆渡车.xlsx", header(), []any{"M5", "Seal"}),
	}

	for _, scheme := range []registry.KeyScheme{registry.SchemeComposite, registry.SchemeSingle} {
		res, err := newRunner(store, scheme, 10).Run(ctx, files)
		require.NoError(t, err)
		// The candidate key always includes the model.
		assert.Equal(t, 2, res.Unknown.Len(), string(scheme))
	}
}

func TestRunner_FilteredRowsNeverSurface(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("FindByMaterialIDs", mock.Anything, mock.Anything).Return(nil, nil)
	store.On("FetchAll", mock.Anything).Return(nil, nil)

	files := []source.File{workbook(t, "AP.xlsx", header(), []any{"GROUP-A", ""}, []any{"M2", "Valve"})}

	res, err := newRunner(store, registry.SchemeComposite, 10).Run(ctx, files)
	require.NoError(t, err)

	for _, c := range res.Unknown.Items() {
		assert.NotEqual(t, "GROUP-A", c.ErpCode)
	}
	for _, e := range res.Vulnerable.Entries() {
		assert.NotEqual(t, "GROUP-A", e.ErpCode)
	}
	assert.Equal(t, 2, res.Summary.TotalRows)
	assert.Equal(t, 1, res.Summary.ExtractedRows)
}

func TestRunner_ContainsFileFailures(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.Store)
	store.On("FindByMaterialIDs", mock.Anything, mock.Anything).Return([]registry.Device{pump}, nil)
	store.On("FetchAll", mock.Anything).Return([]registry.Device{pump}, nil)

	files := []source.File{
		source.MemoryFile{FileName: "legacy.xls", Data: []byte("\xd0\xcf\x11\xe0 binary")},
		workbook(t, "names.xlsx", []any{"名称"}, []any{"x"}),
		workbook(t, "AP.xlsx", header(), []any{"M1", "Pump"}),
	}

	res, err := newRunner(store, registry.SchemeComposite, 10).Run(ctx, files)
	require.NoError(t, err)

	require.Len(t, res.Failed, 2)
	assert.Equal(t, "legacy.xls", res.Failed[0].File)
	assert.Equal(t, "names.xlsx", res.Failed[1].File)
	assert.Equal(t, batch.ErrNoIdentifier.Error(), res.Failed[1].Error)
	assert.Equal(t, 3, res.Summary.TotalFiles)
	assert.Equal(t, 2, res.Summary.FailedFiles)
	assert.Equal(t, 1, res.Vulnerable.Len())
}

func TestRunner_RegistryFailureAbortsRun(t *testing.T) {
	store := new(mocks.Store)
	store.On("FindByMaterialIDs", mock.Anything, mock.Anything).Return(nil, errors.New("too many connections"))

	files := []source.File{workbook(t, "AP.xlsx", header(), []any{"M1", "Pump"})}

	_, err := newRunner(store, registry.SchemeComposite, 10).Run(context.Background(), files)
	assert.ErrorContains(t, err, "too many connections")
}

type slowClassifier struct {
	mu      sync.Mutex
	active  int32
	maxSeen int32
}

func (c *slowClassifier) ClassifyFile(ctx context.Context, res extract.Result) (*models.FileResult, error) {
	n := atomic.AddInt32(&c.active, 1)
	defer atomic.AddInt32(&c.active, -1)

	c.mu.Lock()
	c.maxSeen = max(c.maxSeen, n)
	c.mu.Unlock()

	time.Sleep(10 * time.Millisecond)
	out := models.NewFileResult(res.File, res.Model, registry.SchemeComposite.KeyOf)
	out.Vulnerable.Add(models.Entry{ErpCode: res.File, Model: res.Model})
	return out, nil
}

func TestRunner_BoundedConcurrencyAndFileOrder(t *testing.T) {
	var files []source.File
	names := []string{"f0.xlsx", "f1.xlsx", "f2.xlsx", "f3.xlsx", "f4.xlsx", "f5.xlsx", "f6.xlsx"}
	for _, name := range names {
		files = append(files, workbook(t, name, []any{"ERP", "物料描述"}, []any{"X", "y"}))
	}

	classifier := &slowClassifier{}
	runner := batch.NewRunner(classifier, registry.SchemeComposite, 3, nil)

	res, err := runner.Run(context.Background(), files)
	require.NoError(t, err)

	assert.LessOrEqual(t, classifier.maxSeen, int32(3))
	var got []string
	for _, e := range res.Vulnerable.Entries() {
		got = append(got, e.ErpCode)
	}
	assert.Equal(t, names, got, "merge follows file order")
}

func TestRunner_Empty(t *testing.T) {
	res, err := batch.NewRunner(&slowClassifier{}, registry.SchemeSingle, 0, nil).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Summary.TotalFiles)
	assert.Zero(t, res.Vulnerable.Len())
}
