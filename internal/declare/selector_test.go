package declare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObjectSelector(t *testing.T) {
	tests := []struct {
		in      string
		want    ObjectSelector
		wantErr string
	}{
		{in: "Account", want: LiteralObject{Name: "Account"}},
		{in: " Widget__c ", want: LiteralObject{Name: "Widget__c"}},
		{in: "OBJECTS(ALL)", want: ObjectGroupSelector{Group: ObjectsAll}},
		{in: "OBJECTS(custom)", want: ObjectGroupSelector{Group: ObjectsCustom}},
		{in: "OBJECTS( POPULATED )", want: ObjectGroupSelector{Group: ObjectsPopulated}},
		{in: "OBJECTS(REQUIRED)", wantErr: "unknown object group"},
		{in: "FIELDS(ALL)", wantErr: "expected OBJECTS"},
		{in: "Account, Contact", wantErr: "malformed"},
		{in: "", wantErr: "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseObjectSelector(tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFieldSelector(t *testing.T) {
	tests := []struct {
		in      string
		want    FieldSelector
		wantErr string
	}{
		{in: "Name", want: LiteralField{Name: "Name"}},
		{in: "FIELDS(REQUIRED)", want: FieldGroupSelector{Group: FieldsRequired}},
		{in: "FIELDS(standard)", want: FieldGroupSelector{Group: FieldsStandard}},
		{in: "FIELDS(POPULATED)", wantErr: "unknown field group"},
		{in: "OBJECTS(ALL)", wantErr: "expected FIELDS"},
		{in: "Account.Name", wantErr: "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFieldSelector(tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectorStrings(t *testing.T) {
	assert.Equal(t, "OBJECTS(CUSTOM)", ObjectGroupSelector{Group: ObjectsCustom}.String())
	assert.Equal(t, "FIELDS(ALL)", FieldGroupSelector{Group: FieldsAll}.String())
	assert.Equal(t, "Account", LiteralObject{Name: "Account"}.String())
}

func TestObjectGroupPrecedence(t *testing.T) {
	assert.Greater(t, ObjectsCustom.Precedence(), ObjectsPopulated.Precedence())
	assert.Greater(t, ObjectsPopulated.Precedence(), ObjectsAll.Precedence())
	assert.Equal(t, ObjectsCustom.Precedence(), ObjectsStandard.Precedence())
}

func TestParseAPI(t *testing.T) {
	a, err := ParseAPI("Bulk")
	require.NoError(t, err)
	assert.Equal(t, APIBulk, a)

	a, err = ParseAPI("")
	require.NoError(t, err)
	assert.Equal(t, APIDefault, a)

	_, err = ParseAPI("soap")
	require.Error(t, err)
}
