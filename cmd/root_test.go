package cmd

import "testing"

func TestCommandsRegistered(t *testing.T) {
	expected := []string{"run", "list", "status", "check", "init", "version"}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range expected {
		if !registered[name] {
			t.Errorf("command %q is not registered", name)
		}
	}
}

func TestRunRequiresOperationFlag(t *testing.T) {
	flag := runCmd.Flags().Lookup("operation")
	if flag == nil {
		t.Fatal("run has no --operation flag")
	}
	if req, ok := flag.Annotations["cobra_annotation_bash_completion_one_required_flag"]; !ok || len(req) == 0 {
		t.Error("--operation is not marked required")
	}
}
