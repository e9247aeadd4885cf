package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/depot/pkg/types"
)

func TestReconcileCleanStore(t *testing.T) {
	ctx := context.Background()
	reg, _, _ := testRegistry(t)
	publishVersion(t, reg, "alice-token", "json-lib", "1.0.0", "a")
	publishVersion(t, reg, "alice-token", "json-lib", "1.1.0", "b")
	publishVersion(t, reg, "alice-token", "yaml-lib", "2.0.0", "c")

	report, err := reg.Reconcile(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Checked)
	assert.Empty(t, report.Missing)
}

func TestReconcileReportsOrphanedRecords(t *testing.T) {
	ctx := context.Background()
	reg, meta, _ := testRegistry(t)
	publishVersion(t, reg, "alice-token", "json-lib", "1.0.0", "a")

	// Two records whose blobs were never written.
	for _, orphan := range []struct{ name, ver string }{
		{"json-lib", "1.1.0"},
		{"broken-lib", "0.1.0"},
	} {
		require.NoError(t, meta.CreateOrAppendVersion(ctx, orphan.name, types.VersionRecord{
			Version:  orphan.ver,
			Checksum: "deadbeef",
			Size:     1,
		}, types.PackageDefaults{}))
	}

	report, err := reg.Reconcile(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Checked)
	assert.Equal(t, []string{"broken-lib@0.1.0", "json-lib@1.1.0"}, report.Missing)
}

func TestReconcileClampsConcurrency(t *testing.T) {
	reg, _, _ := testRegistry(t)
	publishVersion(t, reg, "alice-token", "json-lib", "1.0.0", "a")

	report, err := reg.Reconcile(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Checked)
}
