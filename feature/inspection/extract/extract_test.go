package extract

import (
	"slices"
	"testing"

	"spare-manager/core/registry"
	"spare-manager/core/sheet"
	"spare-manager/feature/inspection/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferModel(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"AP-list.xlsx", registry.ModelSystem},
		{"/data/in/系统备件.xlsx", registry.ModelSystem},
		{`C:\exports\摆渡车.xlsx`, registry.ModelShuttle},
		{"Transport-line2.xlsx", registry.ModelTransport},
		{"砖机清单.xlsx", registry.ModelPress},
		{"press.xlsx", registry.ModelPress},
		{"辅机.xlsx", registry.ModelAuxiliary},
		{"inventory.xlsx", ""},
		// "ap" is tested first, so it wins over later tokens.
		{"ap-shuttle.xlsx", registry.ModelSystem},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, InferModel(tt.file))
			assert.Equal(t, InferModel(tt.file), InferModel(tt.file))
		})
	}
}

func TestScan_Headers(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		id     int
		desc   int
		unit   int
		hasID  bool
	}{
		{"Chinese", []string{"序号", "ERP编号", "物料描述", "单位"}, 1, 2, 3, true},
		{"English", []string{"Unit", "Description", "Material No."}, 2, 1, 0, true},
		{"MaterialID", []string{"material_id", "description"}, 0, 1, -1, true},
		{"LastWins", []string{"物料号", "物料描述", "ERP编码"}, 2, 1, -1, true},
		{"UnitPriceIgnored", []string{"物料号", "物料描述", "单位", "Unit Price", "单位价格"}, 0, 1, 2, true},
		{"MeasureUnit", []string{"物料号", "物料描述", "计量单位"}, 0, 1, 2, true},
		{"NoIdentifier", []string{"名称", "物料描述"}, -1, 1, -1, false},
		{"IdentifierNotReused", []string{"ERP description"}, 0, -1, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Scan("x.xlsx", sheet.Grid{tt.header})
			assert.Equal(t, tt.hasID, r.HasIdentifier())
			assert.Equal(t, tt.id, r.idCol)
			assert.Equal(t, tt.desc, r.descCol)
			assert.Equal(t, tt.unit, r.unitCol)
		})
	}
}

func TestResult_Rows(t *testing.T) {
	grid := sheet.Grid{
		{"ERP编号", "物料描述", "单位"},
		{"M1", "Pump", "pcs"},
		{"", "orphan description", ""},
		{"CAT-1", "", ""},
		{" M2 ", " Valve "},
		{"M3", "Seal", "set"},
	}
	r := Scan("AP-list.xlsx", grid)
	require.True(t, r.HasIdentifier())
	assert.Equal(t, registry.ModelSystem, r.Model)

	rows := slices.Collect(r.Rows())
	assert.Equal(t, []models.RawRow{
		{ErpCode: "M1", Description: "Pump", Unit: "pcs"},
		{ErpCode: "M2", Description: "Valve", Unit: ""},
		{ErpCode: "M3", Description: "Seal", Unit: "set"},
	}, rows)
	assert.Equal(t, 4, r.Seen())

	// Restartable.
	assert.Equal(t, rows, slices.Collect(r.Rows()))

	// Early stop.
	var first []models.RawRow
	for row := range r.Rows() {
		first = append(first, row)
		break
	}
	assert.Len(t, first, 1)
}

func TestResult_NoDescriptionColumn(t *testing.T) {
	r := Scan("list.xlsx", sheet.Grid{{"物料号"}, {"M1"}, {"M2"}})

	assert.Empty(t, slices.Collect(r.Rows()))
	assert.Equal(t, 2, r.Seen())
}

func TestResult_NoIdentifier(t *testing.T) {
	r := Scan("list.xlsx", sheet.Grid{{"名称"}, {"x"}})

	assert.False(t, r.HasIdentifier())
	assert.Empty(t, slices.Collect(r.Rows()))
	assert.Zero(t, r.Seen())
}

func TestScan_EmptySheet(t *testing.T) {
	r := Scan("AP.xlsx", sheet.Grid{})
	assert.False(t, r.HasIdentifier())
	assert.Empty(t, slices.Collect(r.Rows()))
}
