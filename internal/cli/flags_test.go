package cli

import (
	"testing"

	"github.com/Dicklesworthstone/proctop/internal/errors"
	"github.com/Dicklesworthstone/proctop/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePIDs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int32
		wantErr bool
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "42", want: []int32{42}},
		{name: "list with spaces", input: "1, 2045 ,2046", want: []int32{1, 2045, 2046}},
		{name: "blank entries ignored", input: "1,,3,", want: []int32{1, 3}},
		{name: "not a number", input: "1,abc", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "overflow", input: "99999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePIDs(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestViewFlagsApply(t *testing.T) {
	f := viewFlags{user: "postgres", pids: "10,20"}
	var opts model.Options
	require.NoError(t, f.apply(&opts))
	assert.Equal(t, "postgres", opts.User)
	assert.Equal(t, map[int32]bool{10: true, 20: true}, opts.PIDs)

	bad := viewFlags{pids: "x"}
	assert.Error(t, bad.apply(&opts))
}

func TestViewFlagsUIOptions(t *testing.T) {
	opts, err := (&viewFlags{}).uiOptions()
	require.NoError(t, err)
	assert.Empty(t, opts)

	opts, err = (&viewFlags{user: "root", pids: "1"}).uiOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 2)
}
