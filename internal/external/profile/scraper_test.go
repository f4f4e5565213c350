package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileHTML = `<!DOCTYPE html>
<html>
<body>
  <h1>NVIDIA Corporation (NVDA)</h1>
  <table>
    <tr><td>Market Cap</td><td>3.1T</td></tr>
    <tr><td>Sector</td><td>Technology</td></tr>
    <tr><td>Industry</td><td>Semiconductors</td></tr>
  </table>
</body>
</html>`

func TestParseProfile(t *testing.T) {
	info, err := ParseProfile(strings.NewReader(profileHTML), "nvda")
	require.NoError(t, err)

	assert.Equal(t, "NVDA", info.Ticker)
	assert.Equal(t, "NVIDIA Corporation", info.Name)
	assert.Equal(t, "Technology", info.Sector)
	assert.Equal(t, "Semiconductors", info.Industry)
}

func TestParseProfile_NameWithoutTickerSuffix(t *testing.T) {
	html := `<html><body><h1>Apple Inc.</h1></body></html>`

	info, err := ParseProfile(strings.NewReader(html), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", info.Ticker)
	assert.Equal(t, "Apple Inc.", info.Name)
	assert.Empty(t, info.Sector)
	assert.Empty(t, info.Industry)
}

func TestParseProfile_HeaderCells(t *testing.T) {
	html := `<html><body>
	<h1>Tesla, Inc. (TSLA)</h1>
	<table>
	  <tr><th>Sector</th><td>Consumer Cyclical</td></tr>
	  <tr><th>Industry</th><td>Auto Manufacturers</td></tr>
	</table>
	</body></html>`

	info, err := ParseProfile(strings.NewReader(html), "TSLA")
	require.NoError(t, err)

	assert.Equal(t, "Tesla, Inc.", info.Name)
	assert.Equal(t, "Consumer Cyclical", info.Sector)
	assert.Equal(t, "Auto Manufacturers", info.Industry)
}

func TestParseProfile_EmptyPage(t *testing.T) {
	info, err := ParseProfile(strings.NewReader("<html><body></body></html>"), "XYZ")
	require.NoError(t, err)

	assert.Equal(t, "XYZ", info.Ticker)
	assert.Empty(t, info.Name)
}
