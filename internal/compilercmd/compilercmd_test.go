package compilercmd

import "testing"

func TestValidateRequiresExactlyOneFile(t *testing.T) {
	var c Cmd
	c.SetArgs(nil)
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error when no source file is given")
	}

	c.SetArgs([]string{"a.styk", "b.styk"})
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error when more than one source file is given")
	}

	c.SetArgs([]string{"a.styk"})
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateHelpAndVersionSkipFileCheck(t *testing.T) {
	c := Cmd{Help: true}
	c.SetArgs(nil)
	if err := c.Validate(); err != nil {
		t.Fatalf("--help should bypass argument validation, got %v", err)
	}

	c = Cmd{Version: true}
	c.SetArgs(nil)
	if err := c.Validate(); err != nil {
		t.Fatalf("--version should bypass argument validation, got %v", err)
	}
}

func TestValidateRejectsFrontendAndIntermediateTogether(t *testing.T) {
	c := Cmd{OnlyFrontend: true, Intermediate: true}
	c.SetArgs([]string{"a.styk"})
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error when combining -f and -i")
	}
}
