package commands

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "migrate", "generate", "report"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, cmd.Name())
		}
	}
}

func TestSetupLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	setupLogger(map[string]string{"LOG_LEVEL": "WARN"})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	setupLogger(map[string]string{"LOG_LEVEL": "loud"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	setupLogger(nil)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestGenerateOutFlagDefault(t *testing.T) {
	out, err := generateCmd.Flags().GetString("out")
	assert.NoError(t, err)
	assert.Equal(t, "./query", out)
}
