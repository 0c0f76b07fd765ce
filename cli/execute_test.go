package cli

import (
	"testing"
)

func TestExecuteWrapper(t *testing.T) {
	defer resetCLI()
	// nil app makes PersistentPreRunE build one from flags
	app = nil
	rootCmd.SetArgs([]string{"--store", "memory", "create", "--name", "ExecTest", "--price", "1"})
	if _, err := captureOutput(Execute); err != nil {
		t.Fatalf("Execute wrapper failed: %v", err)
	}
	if app == nil {
		t.Fatal("expected Execute to build the app")
	}
}
