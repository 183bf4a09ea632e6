package segment

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentCommand_Metadata(t *testing.T) {
	assert.Equal(t, "segment", Cmd.Use)
	assert.Contains(t, Cmd.Short, "Classify a balance")
	assert.NotNil(t, Cmd.RunE)

	balanceFlag := Cmd.Flags().Lookup("balance")
	require.NotNil(t, balanceFlag)
	assert.Equal(t, "b", balanceFlag.Shorthand)
	assert.Contains(t, balanceFlag.Usage, "balance")
}

func TestSegmentCommand_Classify(t *testing.T) {
	tests := []struct {
		balance string
		want    string
	}{
		{"-10", "starter"},
		{"0", "starter"},
		{"5000.00", "starter"},
		{"5000.01", "growing"},
		{"10000", "growing"},
		{"10000.01", "investor"},
		{" 25000 ", "investor"},
	}

	for _, tt := range tests {
		t.Run(tt.balance, func(t *testing.T) {
			var out bytes.Buffer
			Cmd.SetOut(&out)
			balance = tt.balance

			require.NoError(t, segmentFunc(Cmd, nil))
			assert.Equal(t, tt.want+"\n", out.String())
		})
	}
}

func TestSegmentCommand_InvalidBalance(t *testing.T) {
	balance = "a lot"
	err := segmentFunc(Cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid balance")
}
