package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/descry-cli/internal/browser"
	"github.com/xkilldash9x/descry-cli/internal/config"
)

func TestNormalizeTarget(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"bare host gets https", "example.com", "https://example.com"},
		{"http preserved", "http://example.com", "http://example.com"},
		{"https preserved", "https://example.com/a?b=c", "https://example.com/a?b=c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeTarget(tt.target))
		})
	}
}

const describeFixture = `<html><body>
	<div id="root">
		<label for="user">Username</label>
		<input id="user" type="text" value="admin">
		<button>Sign in</button>
	</div>
</body></html>`

func newFixtureResolver(t *testing.T) *browser.SnapshotResolver {
	t.Helper()
	resolver, err := browser.NewSnapshotResolver(&browser.Snapshot{
		PageURL: "https://example.com/login",
		HTML:    describeFixture,
	})
	require.NoError(t, err)
	return resolver
}

func TestDescribeRefs(t *testing.T) {
	resolver := newFixtureResolver(t)
	cfg := &config.Config{Output: config.OutputConfig{EmitCode: true}}

	items, err := describeRefs(context.Background(), cfg, resolver, []string{"e1", "e2"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Output order follows request order regardless of worker scheduling.
	assert.Equal(t, "e1", items[0].Ref)
	assert.Equal(t, "e2", items[1].Ref)

	input := items[0].Descriptor
	require.NotNil(t, input)
	assert.Equal(t, "input", input.TagName)
	assert.Equal(t, "Username", input.Label)
	assert.Equal(t, `//*[@id="user"]`, input.FullXPath)
	assert.Equal(t, `descry describe "https://example.com/login" --ref e1`, items[0].Code)

	button := items[1].Descriptor
	require.NotNil(t, button)
	assert.Equal(t, "button", button.TagName)
	require.NotNil(t, button.Text)
	assert.Equal(t, "Sign in", *button.Text)
}

func TestDescribeRefs_UnknownRefFailsBeforeAnyWork(t *testing.T) {
	resolver := newFixtureResolver(t)
	cfg := &config.Config{}

	items, err := describeRefs(context.Background(), cfg, resolver, []string{"e1", "e99"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "e99")
	assert.Nil(t, items)
}

func TestDescribeRefs_NoCodeWhenDisabled(t *testing.T) {
	resolver := newFixtureResolver(t)
	cfg := &config.Config{Output: config.OutputConfig{EmitCode: false}}

	items, err := describeRefs(context.Background(), cfg, resolver, []string{"e2"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].Code)
}
