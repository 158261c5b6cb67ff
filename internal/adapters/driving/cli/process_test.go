package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
)

func TestProcessCmd_Use(t *testing.T) {
	assert.Equal(t, "process [file]", processCmd.Use)
}

func TestProcessCmd_Short(t *testing.T) {
	assert.Equal(t, "Segment a minutes file into speaker turns", processCmd.Short)
}

func TestProcessCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"process"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestProcessCmd_HasFlags(t *testing.T) {
	for _, name := range []string{"keywords", "workers", "save", "json"} {
		assert.NotNil(t, processCmd.Flags().Lookup(name), "flag %s should exist", name)
	}
}

func TestProcessCmd_WorkersHelpMatchesDefault(t *testing.T) {
	flag := processCmd.Flags().Lookup("workers")
	require.NotNil(t, flag)
	assert.Contains(t, flag.Usage, "default 4")
}

func TestProcessCmd_ErrorsOnMissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"process", filepath.Join(t.TempDir(), "missing.txt")})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading minutes file")
}

func writeMinutesFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "minutes.txt")
	require.NoError(t, os.WriteFile(path, []byte("出席議員\n｜境界｜\n第1 開会\n山田議員：おはようございます。"), 0600))
	return path
}

func TestProcessCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	processService = &stubProcessor{
		result: domain.ProcessResult{
			Boundary: domain.Boundary{Found: true, Offset: 15, Pattern: "｜境界｜"},
			Chapters: []domain.Chapter{{Number: 1, Text: "第1 開会"}},
			Utterances: []domain.Utterance{
				{ID: "u-1", ChapterNumber: 1, Speaker: "山田議員", Text: "おはようございます。", Order: 1, Sequence: 1},
			},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"process", writeMinutesFile(t)})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Chapters: 1, Utterances: 1")
	assert.Contains(t, buf.String(), "山田議員")
}

func TestProcessCmd_SavePersistsUtterances(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	processService = &stubProcessor{
		result: domain.ProcessResult{
			Utterances: []domain.Utterance{
				{ID: "u-1", ChapterNumber: 1, Speaker: "山田議員", Text: "はい。", Order: 1, Sequence: 1},
			},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"process", "--save", writeMinutesFile(t)})
	defer func() {
		rootCmd.SetArgs(nil)
		processSave = false
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)

	// The stub leaves DocumentID empty, so all saved utterances list under "".
	stored, err := minutesStore.ListUtterances(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
	assert.Equal(t, "山田議員", stored[0].Speaker)
}

func TestProcessCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	processService = &stubProcessor{
		result: domain.ProcessResult{
			Utterances: []domain.Utterance{
				{ID: "u-1", ChapterNumber: 1, Speaker: "佐藤議員", Text: "賛成です。", Order: 1, Sequence: 1},
			},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"process", "--json", writeMinutesFile(t)})
	defer func() {
		rootCmd.SetArgs(nil)
		processJSON = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"Speaker": "佐藤議員"`)
}
