package registry

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"whitelisted", StatusWhitelisted},
		{" Whitelisted ", StatusWhitelisted},
		{"白名单", StatusWhitelisted},
		{"blacklisted", StatusBlacklisted},
		{"黑名单", StatusBlacklisted},
		{"pending", Status("pending")},
		{"", Status("")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.in))
		})
	}
}

func TestStatus_Toggle(t *testing.T) {
	assert.Equal(t, StatusBlacklisted, StatusWhitelisted.Toggle())
	assert.Equal(t, StatusWhitelisted, StatusBlacklisted.Toggle())
	assert.Equal(t, StatusWhitelisted, Status("odd").Toggle())
}

func TestDevice_UnmarshalLegacyStatus(t *testing.T) {
	var d Device
	err := json.Unmarshal([]byte(`{"materialId":"M1","model":"Press","spareCount":2,"status":"黑名单"}`), &d)
	require.NoError(t, err)

	assert.Equal(t, "M1", d.MaterialID)
	assert.Equal(t, "Press", d.Model)
	assert.Equal(t, 2, d.SpareCount)
	assert.Equal(t, StatusBlacklisted, d.Status)
}

func TestDevice_Validate(t *testing.T) {
	valid := Device{MaterialID: "M1", Status: StatusBlacklisted}
	assert.NoError(t, valid.Validate())

	cases := map[string]Device{
		"MissingID":     {MaterialID: " ", Status: StatusBlacklisted},
		"NegativeCount": {MaterialID: "M1", SpareCount: -1, Status: StatusBlacklisted},
		"UnknownStatus": {MaterialID: "M1", Status: "pending"},
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			assert.True(t, errors.Is(d.Validate(), ErrInvalidDevice))
		})
	}
}

func TestDevice_ValidateTrackable(t *testing.T) {
	full := Device{MaterialID: "M1", Description: "Pump", SpareCount: 2, Unit: "pcs", Status: StatusWhitelisted}
	assert.NoError(t, full.ValidateTrackable())

	noUnit := full
	noUnit.Unit = ""
	assert.ErrorIs(t, noUnit.ValidateTrackable(), ErrInvalidDevice)

	zero := full
	zero.SpareCount = 0
	assert.ErrorContains(t, zero.ValidateTrackable(), "spareCount")

	// Blacklisted records never need spare fields.
	assert.NoError(t, Device{MaterialID: "M2", Status: StatusBlacklisted}.ValidateTrackable())
}

func TestDevice_Blacklisted(t *testing.T) {
	d := Device{MaterialID: "M1", Description: "Pump", SpareCount: 3, Unit: "pcs", Remark: "x", Status: StatusWhitelisted}.Blacklisted()

	assert.Equal(t, Device{MaterialID: "M1", Description: "Pump", Status: StatusBlacklisted}, d)
}

func TestKeyScheme(t *testing.T) {
	s, err := ParseKeyScheme("")
	require.NoError(t, err)
	assert.Equal(t, SchemeComposite, s)

	s, err = ParseKeyScheme("SINGLE")
	require.NoError(t, err)
	assert.Equal(t, SchemeSingle, s)

	_, err = ParseKeyScheme("triple")
	assert.Error(t, err)

	assert.Equal(t, "M1|Press", SchemeComposite.KeyOf("M1", "Press"))
	assert.Equal(t, "M1|", SchemeComposite.KeyOf("M1", ""))
	assert.Equal(t, "M1", SchemeSingle.KeyOf("M1", "Press"))
	assert.Equal(t, "M1", SchemeSingle.DeviceKey(Device{MaterialID: "M1", Model: "System"}))
}

func TestModelRank(t *testing.T) {
	assert.Equal(t, 0, ModelRank(ModelSystem))
	assert.Equal(t, 4, ModelRank(ModelTransport))
	assert.Equal(t, len(Models), ModelRank(""))
	assert.True(t, IsModel(ModelPress))
	assert.False(t, IsModel("press"))
}

func TestCanonicalModel(t *testing.T) {
	assert.Equal(t, ModelShuttle, CanonicalModel("摆渡车"))
	assert.Equal(t, ModelPress, CanonicalModel(" PRESS "))
	assert.Equal(t, "Line 3", CanonicalModel(" Line 3 "))
	assert.Equal(t, "", CanonicalModel(""))
}
