package str

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"a", "*"},
		{"ab", "a*"},
		{"secret", "sec***"},
		{"longerpassword", "longerp*******"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Mask(tt.input))
	}
}

func TestMaskURL(t *testing.T) {
	masked, err := MaskURL("http://livebox/authenticate?username=admin&password=hunter22")
	require.NoError(t, err)
	assert.Equal(t, "http://livebox/authenticate?password=hunt****&username=ad***", masked)
	assert.NotContains(t, masked, "hunter22")
}

func TestMaskURLKeepsPathReadable(t *testing.T) {
	masked, err := MaskURL("http://livebox/sysbus/NMC:getWANStatus")
	require.NoError(t, err)
	assert.Equal(t, "http://livebox/sysbus/NMC:getWANStatus", masked)
}

func TestMaskedString(t *testing.T) {
	ms := NewMaskedString("hunter22")
	assert.Equal(t, "hunter22", ms.Text())
	assert.Equal(t, "hunt****", ms.String())
	assert.Equal(t, "hunt****", fmt.Sprintf("%s", ms))
	assert.Equal(t, "hunt****", fmt.Sprintf("%#v", ms))

	buf, err := json.Marshal(ms)
	require.NoError(t, err)
	assert.Equal(t, `"hunter22"`, string(buf))

	assert.Equal(t, "", MaskedString("").String())
}
