// internal/frame/filter_test.go
package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilter_Rejects(t *testing.T) {
	_, err := NewFilter(nil)
	assert.Error(t, err)

	_, err = NewFilter([]string{"!AIVDM", ""})
	assert.Error(t, err)
}

func TestFilter_Accept(t *testing.T) {
	f, err := NewFilter([]string{"!AIVDM", "!AIVDO"})
	require.NoError(t, err)

	cases := []struct {
		line string
		want bool
	}{
		{"!AIVDM,1,1,,,B,13u?etPv2;0n:dDPwUM1U1Cb05Ip,0*3C", true},
		{"!AIVDO,1,1,,,B,13u?etPv2;0n:dDPwUM1U1Cb05Ip,0*3C", true},
		{"$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47", false},
		{"!aivdm,1,1", false},
		{" !AIVDM,1,1", false},
		{"!AIVD", false},
		{"", false},
		{"x!AIVDM", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, f.Accept([]byte(tc.line)), "line %q", tc.line)
	}
}
