package root_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mar-formanite/finwise/cmd/root"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "finwise", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "ingest and classify personal finance transactions")
	assert.Contains(t, root.Cmd.Long, "spending category")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRun)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()

	modelFlag := root.Cmd.PersistentFlags().Lookup("model-dir")
	assert.NotNil(t, modelFlag)
	assert.Equal(t, "m", modelFlag.Shorthand)

	dbFlag := root.Cmd.PersistentFlags().Lookup("database")
	assert.NotNil(t, dbFlag)
	assert.Equal(t, "d", dbFlag.Shorthand)
}
