package ingest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mar-formanite/finwise/cmd/ingest"
)

func TestIngestCommand_Metadata(t *testing.T) {
	assert.Equal(t, "ingest", ingest.Cmd.Use)
	assert.Contains(t, ingest.Cmd.Short, "Ingest one expense input")
	assert.Contains(t, ingest.Cmd.Long, "transaction candidates")
	assert.NotNil(t, ingest.Cmd.Run)
}

func TestIngestCommand_Flags(t *testing.T) {
	typeFlag := ingest.Cmd.Flags().Lookup("type")
	assert.NotNil(t, typeFlag)
	assert.Equal(t, "t", typeFlag.Shorthand)
	assert.Contains(t, typeFlag.Usage, "receipt_image")

	dataFlag := ingest.Cmd.Flags().Lookup("data")
	assert.NotNil(t, dataFlag)
	assert.Equal(t, "i", dataFlag.Shorthand)

	dirFlag := ingest.Cmd.Flags().Lookup("dir")
	assert.NotNil(t, dirFlag)
	assert.Contains(t, dirFlag.Usage, "directory")

	outputFlag := ingest.Cmd.Flags().Lookup("output")
	assert.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	saveFlag := ingest.Cmd.Flags().Lookup("save")
	assert.NotNil(t, saveFlag)
	assert.Equal(t, "s", saveFlag.Shorthand)
	assert.Equal(t, "false", saveFlag.DefValue)
}
