package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"scrape", "find-linkedin", "linkedin", "batch", "serve"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "bizintel", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestBatchCommand_Flags(t *testing.T) {
	tests := []struct {
		name string
		def  string
	}{
		{"file", ""},
		{"format", "text"},
		{"output", ""},
		{"mode", "linkedin_only"},
		{"concurrency", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := batchCmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag, "batch command should have --%s flag", tt.name)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestScrapeCommand_Args(t *testing.T) {
	assert.Error(t, scrapeCmd.Args(scrapeCmd, nil))
	assert.NoError(t, scrapeCmd.Args(scrapeCmd, []string{"example.com"}))
	assert.Error(t, findLinkedInCmd.Args(findLinkedInCmd, nil))
	assert.Error(t, linkedinCmd.Args(linkedinCmd, []string{"a", "b"}))
}
