package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditor(t *testing.T) {
	// Create a temporary directory for testing
	tempDir := "./test_audit"
	defer os.RemoveAll(tempDir)

	auditor := NewAuditor(tempDir)

	t.Run("SaveJSON creates audit directory and saves file", func(t *testing.T) {
		testData := map[string]interface{}{
			"name":  "Dinner Talk",
			"cards": []string{"q1", "q2"},
		}

		filename, err := auditor.SaveJSON(testData)
		require.NoError(t, err)
		assert.NotEmpty(t, filename)
		assert.Contains(t, filename, ".json")

		// Verify the directory was created
		_, err = os.Stat(tempDir)
		assert.NoError(t, err)

		// Verify the file content round-trips
		fileContent, err := os.ReadFile(filepath.Join(tempDir, filename))
		require.NoError(t, err)

		var savedData map[string]interface{}
		err = json.Unmarshal(fileContent, &savedData)
		require.NoError(t, err)
		assert.Equal(t, "Dinner Talk", savedData["name"])
	})

	t.Run("SaveRaw keeps malformed payloads byte for byte", func(t *testing.T) {
		payload := []byte(`{"name": "broken`)

		filename, err := auditor.SaveRaw(payload)
		require.NoError(t, err)

		fileContent, err := os.ReadFile(filepath.Join(tempDir, filename))
		require.NoError(t, err)
		assert.Equal(t, payload, fileContent)
	})

	t.Run("SaveJSON generates unique filenames", func(t *testing.T) {
		testData := map[string]string{"key": "value"}

		filename1, err := auditor.SaveJSON(testData)
		require.NoError(t, err)

		filename2, err := auditor.SaveJSON(testData)
		require.NoError(t, err)

		assert.NotEqual(t, filename1, filename2)
	})
}

func TestAuditor_CleanupOld(t *testing.T) {
	tempDir := "./test_audit_cleanup"
	defer os.RemoveAll(tempDir)

	auditor := NewAuditor(tempDir)

	oldFile, err := auditor.SaveRaw([]byte(`{"old": true}`))
	require.NoError(t, err)
	newFile, err := auditor.SaveRaw([]byte(`{"old": false}`))
	require.NoError(t, err)

	// Age the first file past the retention window
	oldTime := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(tempDir, oldFile), oldTime, oldTime))

	deleted, err := auditor.CleanupOld(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = os.Stat(filepath.Join(tempDir, oldFile))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(tempDir, newFile))
	assert.NoError(t, err)

	t.Run("missing directory is not an error", func(t *testing.T) {
		missing := NewAuditor("./test_audit_missing")
		deleted, err := missing.CleanupOld(time.Hour)
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})
}
