// internal/results/emitter_test.go
package results

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/descry-cli/api/schemas"
)

func TestJSONEmitter_EmitDescribeToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	value := "admin"
	env := schemas.NewDescribeEnvelope("https://example.com/login", []schemas.RefDescriptor{
		{
			Ref:  "e2",
			Code: InvocationCode("https://example.com/login", "e2"),
			Descriptor: &schemas.ElementDescriptor{
				URL:         "https://example.com/login",
				TagName:     "input",
				ID:          "user",
				FullXPath:   `//*[@id="user"]`,
				CSSSelector: "#user",
				OuterHTML:   `<input id="user" value="admin">`,
				Value:       &value,
				ValueLabel:  "",
				Label:       "Username",
				TimeStamp:   1700000000000,
			},
		},
	})

	emitter, err := NewJSONEmitter(path, true, nil)
	require.NoError(t, err)
	require.NoError(t, emitter.EmitDescribe(env))
	require.NoError(t, emitter.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, env.CaptureID, decoded["captureId"])
	assert.Equal(t, "https://example.com/login", decoded["pageUrl"])

	elements, ok := decoded["elements"].([]interface{})
	require.True(t, ok)
	require.Len(t, elements, 1)

	element := elements[0].(map[string]interface{})
	assert.Equal(t, "e2", element["ref"])
	assert.Equal(t, `descry describe "https://example.com/login" --ref e2`, element["code"])

	descriptor := element["descriptor"].(map[string]interface{})
	assert.Equal(t, "input", descriptor["tagName"])
	assert.Equal(t, "admin", descriptor["value"])

	// Absence semantics on the wire: text was nil and must be omitted, while
	// the empty valueLabel and label stay present.
	_, hasText := descriptor["text"]
	assert.False(t, hasText)
	_, hasValueLabel := descriptor["valueLabel"]
	assert.True(t, hasValueLabel)
	_, hasLabel := descriptor["label"]
	assert.True(t, hasLabel)
}

func TestJSONEmitter_OmitsAbsentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	env := schemas.NewDescribeEnvelope("https://example.com", []schemas.RefDescriptor{
		{
			Ref: "e1",
			Descriptor: &schemas.ElementDescriptor{
				URL:         "https://example.com",
				TagName:     "span",
				FullXPath:   "/html/body/span",
				CSSSelector: "html > body > span",
				OuterHTML:   "<span></span>",
				TimeStamp:   1700000000000,
			},
		},
	})

	emitter, err := NewJSONEmitter(path, false, nil)
	require.NoError(t, err)
	require.NoError(t, emitter.EmitDescribe(env))
	require.NoError(t, emitter.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"id"`)
	assert.NotContains(t, string(raw), `"value"`)
	assert.NotContains(t, string(raw), `"text"`)
	assert.Contains(t, string(raw), `"label"`)
	assert.Contains(t, string(raw), `"valueLabel"`)
}

func TestJSONEmitter_RefList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.json")

	env := &schemas.RefListEnvelope{
		CaptureID: "cap-1",
		PageURL:   "https://example.com",
		Timestamp: 1700000000000,
		Refs: []schemas.RefEntry{
			{Ref: "e1", TagName: "a", Preview: "Home"},
			{Ref: "e2", TagName: "button", Preview: "Sign in"},
		},
	}

	emitter, err := NewJSONEmitter(path, true, nil)
	require.NoError(t, err)
	require.NoError(t, emitter.EmitRefList(env))
	require.NoError(t, emitter.Close())

	var decoded schemas.RefListEnvelope
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, env.Refs, decoded.Refs)
}

func TestNewJSONEmitter_BadPath(t *testing.T) {
	_, err := NewJSONEmitter(filepath.Join(t.TempDir(), "missing", "out.json"), false, nil)
	require.Error(t, err)
}

func TestInvocationCode(t *testing.T) {
	assert.Equal(t,
		`descry describe "https://example.com/a?b=c" --ref e7`,
		InvocationCode("https://example.com/a?b=c", "e7"))
}
