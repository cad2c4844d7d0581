package stringer

import (
  "testing"

  "github.com/stretchr/testify/require"
)

func TestStripTags(t *testing.T) {
  require.Equal(t, "Out of Stock", StripTags(`<span class="x"><b>Out of Stock</b></span>`))
  require.Equal(t, "plain", StripTags("  plain  "))
}

func TestContainsStrings(t *testing.T) {
  body := `{"showNotifyWhenAvailable": false, "showNotifyWhenInStock": false}`

  require.True(t, ContainsStrings(body, `"showNotifyWhenAvailable": false`, `"showNotifyWhenInStock": false`))
  require.False(t, ContainsStrings(body, `"showNotifyWhenAvailable": false`, `"instock":true`))
  require.True(t, ContainsStrings(body))
}
