package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "dribbble-test", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupFromEnvMissing(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	_, err = SetupFromEnv(context.Background(), "dribbble-test")
	// a telemetry.json5 may still exist above the temp dir
	if err != nil {
		require.ErrorIs(t, err, os.ErrNotExist)
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "telemetry.json5"), []byte(`{
		// no endpoints, stays on the no-op providers
		otlp: {},
	}`), 0600))
	tel, err := SetupFromEnv(context.Background(), "dribbble-test")
	require.NoError(t, err)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSamplePerf(t *testing.T) {
	sample := SamplePerf(10 * time.Millisecond)
	require.Greater(t, sample.Goroutines, int64(0))
	require.GreaterOrEqual(t, sample.AllocatedMb, int64(0))
}
