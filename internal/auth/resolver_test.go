package auth

import "testing"

func TestResolveOrder(t *testing.T) {
	flagToken := "from-flag"

	r := NewResolver().
		WithFlag(&flagToken).
		WithProvider(func() (string, string, error) {
			return "from-session", "session", nil
		})

	result, err := r.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if result.Token != "from-flag" {
		t.Errorf("token = %q, want from-flag", result.Token)
	}
	if result.Source != SourceFlag {
		t.Errorf("source = %q, want flag", result.Source)
	}
}

func TestResolveFallsThrough(t *testing.T) {
	empty := ""

	r := NewResolver().
		WithFlag(&empty).
		WithProvider(func() (string, string, error) {
			return "", "", nil
		}).
		WithProvider(func() (string, string, error) {
			return "from-gh", "gh:keyring", nil
		})

	result, err := r.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if result.Token != "from-gh" {
		t.Errorf("token = %q, want from-gh", result.Token)
	}
	if result.Source != SourceCLI {
		t.Errorf("source = %q, want cli", result.Source)
	}
}

func TestResolveEnv(t *testing.T) {
	t.Setenv("APPCONF_TEST_TOKEN", "from-env")

	r := NewResolver().WithEnvs("APPCONF_TEST_MISSING", "APPCONF_TEST_TOKEN")

	result, err := r.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if result.Token != "from-env" {
		t.Errorf("token = %q, want from-env", result.Token)
	}
	if result.Name != "APPCONF_TEST_TOKEN" {
		t.Errorf("name = %q", result.Name)
	}
	if result.Source != SourceEnv {
		t.Errorf("source = %q, want env", result.Source)
	}
}

func TestResolveNothingFound(t *testing.T) {
	r := NewResolver().WithHelpMessage("run: appconf auth set <token>")

	if _, err := r.Resolve(); err == nil {
		t.Fatal("Resolve succeeded with no sources, want error")
	}
}
