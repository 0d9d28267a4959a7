package weather

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLiveSnapshot hits the real QWeather API; set TIAN_TEST_QWEATHER_HOST and
// TIAN_TEST_QWEATHER_KEY to run it.
func TestLiveSnapshot(t *testing.T) {
	host, key := os.Getenv("TIAN_TEST_QWEATHER_HOST"), os.Getenv("TIAN_TEST_QWEATHER_KEY")
	if host == "" || key == "" {
		t.Skip("TIAN_TEST_QWEATHER_HOST / TIAN_TEST_QWEATHER_KEY not set")
	}

	c, err := NewClient(Config{BaseURL: "https://" + host, APIKey: key})
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, err := c.Snapshot(ctx, "北京")
	require.NoError(t, err)
	assert.Equal(t, "北京", snap.Location)
	assert.NotNil(t, snap.Now)
	assert.NotEmpty(t, snap.Daily)
}
